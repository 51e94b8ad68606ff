// Package archive stores raw feed payloads in S3 for replay and audit.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchivalError is a storage write failure. It is fatal to an ingestion
// run: an unarchived batch would be unrecoverable on later failures.
type ArchivalError struct {
	Key string
	Err error
}

func (e *ArchivalError) Error() string {
	return fmt.Sprintf("archiving payload under %s: %v", e.Key, e.Err)
}

func (e *ArchivalError) Unwrap() error { return e.Err }

// ObjectPutter is the slice of the S3 API the sink needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Sink writes raw payloads verbatim to a bucket, keyed by ingestion time.
type Sink struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

// NewSink creates a sink writing to the given bucket.
func NewSink(client ObjectPutter, bucket string) *Sink {
	return &Sink{client: client, bucket: bucket, now: time.Now}
}

// Key derives the object key for a payload archived at t, UTC at second
// granularity.
func Key(t time.Time) string {
	return "raw_data/news_raw" + t.UTC().Format("2006-01-02_15-04-05") + ".json"
}

// Store writes the payload under a timestamp-derived key and returns the
// key used.
func (s *Sink) Store(ctx context.Context, payload []byte) (string, error) {
	key := Key(s.now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", &ArchivalError{Key: key, Err: err}
	}

	log.Printf("Archived payload to s3://%s/%s", s.bucket, key)
	return key, nil
}
