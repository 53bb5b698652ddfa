package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// ErrSampleSize is returned when more items are requested than are available
var ErrSampleSize = errors.New("sample size exceeds population")

// Sampler picks k distinct indices out of [0, n)
type Sampler interface {
	Sample(n, k int) ([]int, error)
}

// CryptoSampler samples without replacement using a cryptographically strong source.
// Every k-subset of the population is equally likely.
type CryptoSampler struct {
	Source io.Reader // defaults to crypto/rand.Reader
}

// NewCryptoSampler creates a sampler backed by crypto/rand
func NewCryptoSampler() *CryptoSampler {
	return &CryptoSampler{Source: rand.Reader}
}

// Sample runs a partial Fisher-Yates shuffle over the index space and returns
// the first k positions in the order they were drawn.
func (s *CryptoSampler) Sample(n, k int) ([]int, error) {
	if k < 0 || n < 0 {
		return nil, fmt.Errorf("invalid sample request n=%d k=%d", n, k)
	}
	if k > n {
		return nil, ErrSampleSize
	}
	src := s.Source
	if src == nil {
		src = rand.Reader
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j, err := uniformInt(src, n-i)
		if err != nil {
			return nil, fmt.Errorf("failed to read random source: %w", err)
		}
		idx[i], idx[i+j] = idx[i+j], idx[i]
	}
	return idx[:k], nil
}

func uniformInt(src io.Reader, bound int) (int, error) {
	v, err := rand.Int(src, big.NewInt(int64(bound)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GenerateRandomString generates a random string of the specified length
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:length], nil
}
