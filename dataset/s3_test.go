package dataset

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers path-style GetObject requests from an in-memory map.
type fakeS3 struct {
	objects map[string][]byte
	calls   int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	resp := &http.Response{
		Header:  make(http.Header),
		Request: req,
	}
	if req.Method != http.MethodGet {
		resp.StatusCode = http.StatusNotImplemented
		resp.Body = io.NopCloser(strings.NewReader(""))
		return resp, nil
	}
	body, ok := f.objects[req.URL.Path]
	if !ok {
		resp.StatusCode = http.StatusNotFound
		resp.Header.Set("Content-Type", "application/xml")
		resp.Body = io.NopCloser(strings.NewReader(
			`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
		return resp, nil
	}
	resp.StatusCode = http.StatusOK
	resp.ContentLength = int64(len(body))
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func newFakeS3Client(rt http.RoundTripper) *s3.Client {
	return s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("test", "test", ""),
		BaseEndpoint: aws.String("https://mock.s3.local"),
		UsePathStyle: true,
		HTTPClient:   &http.Client{Transport: rt},
	})
}

func TestS3Fetch(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{
		"/roads/v1/" + GeoFile: []byte(`{"type":"FeatureCollection","features":[]}`),
	}}
	src := NewS3FromClient(newFakeS3Client(fake), "roads", "v1")
	ctx := context.Background()

	data, err := src.Fetch(ctx, GeoFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")

	_, err = src.Fetch(ctx, PenaltiesFile)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "s3://roads/v1", src.String())
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	assert.Error(t, err)
}
