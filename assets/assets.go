// Package assets fetches the vocabulary documents from object storage
// when they are not present locally.
package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var vocabFiles = []string{"chord_vocab.json", "metadata_vocab.json"}

// FetchVocab downloads the vocabulary JSON documents from the bucket
// into dir. Existing files are overwritten.
func FetchVocab(bucket string, dir string) error {
	sess, err := session.NewSession(&aws.Config{})
	if err != nil {
		return fmt.Errorf("creating aws session: %w", err)
	}
	downloader := s3manager.NewDownloader(sess)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating vocab dir: %w", err)
	}

	for _, name := range vocabFiles {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("creating %v: %w", name, err)
		}

		_, err = downloader.Download(f, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(name),
		})
		f.Close()
		if err != nil {
			return fmt.Errorf("downloading %v from %v: %w", name, bucket, err)
		}
	}
	return nil
}

// HasVocab reports whether dir already holds both vocabulary documents.
func HasVocab(dir string) bool {
	for _, name := range vocabFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}
