package evidence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vector, s.err
}

func (s *stubEmbedder) Dimensions() int { return len(s.vector) }

type stubSearcher struct {
	patterns []Pattern
	err      error
}

func (s *stubSearcher) SearchScamPatterns(_ context.Context, _ []float32, _ int) ([]Pattern, error) {
	return s.patterns, s.err
}

func TestRetrieveReturnsPatterns(t *testing.T) {
	r := NewRetriever(
		&stubEmbedder{vector: []float32{0.1, 0.2}},
		&stubSearcher{patterns: []Pattern{
			{Category: "digital_arrest", ScamType: "impersonation", Description: "fake CBI officer", Similarity: 0.91},
			{Category: "kyc_fraud", ScamType: "phishing", Description: "KYC expiry threat", Similarity: 0.64},
		}},
		5,
	)

	got := r.Retrieve(context.Background(), "CBI officer calling about your case")
	assert.Len(t, got, 2)
	assert.Equal(t, BucketHigh, got[0].Bucket())
	assert.Equal(t, BucketMedium, got[1].Bucket())
}

func TestRetrieveDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    *Retriever
	}{
		{
			name: "embedder failure",
			r: NewRetriever(
				&stubEmbedder{err: errors.New("provider down")},
				&stubSearcher{patterns: []Pattern{{Similarity: 0.9}}},
				5,
			),
		},
		{
			name: "search failure",
			r: NewRetriever(
				&stubEmbedder{vector: []float32{0.5}},
				&stubSearcher{err: errors.New("db down")},
				5,
			),
		},
		{
			name: "retrieval disabled",
			r:    NewRetriever(nil, nil, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Retrieve(context.Background(), "some message")
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestPatternBucketBoundaries(t *testing.T) {
	assert.Equal(t, BucketHigh, Pattern{Similarity: 0.85}.Bucket())
	assert.Equal(t, BucketMedium, Pattern{Similarity: 0.84}.Bucket())
	assert.Equal(t, BucketMedium, Pattern{Similarity: 0.60}.Bucket())
	assert.Equal(t, BucketLow, Pattern{Similarity: 0.59}.Bucket())
}

func TestFormatContext(t *testing.T) {
	assert.Equal(t, "No similar known scam patterns found.", FormatContext(nil))

	out := FormatContext([]Pattern{
		{Category: "lottery_prize", ScamType: "advance_fee", Description: "prize claim fee", Similarity: 0.88},
	})
	assert.Contains(t, out, "HIGH match")
	assert.Contains(t, out, "lottery_prize")
	assert.Contains(t, out, "0.88")
}
