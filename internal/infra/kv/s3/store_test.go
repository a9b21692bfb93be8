package s3

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/BruksfildServices01/barberbook/internal/kv/kvtest"
)

func TestS3Store_Contract(t *testing.T) {
	bucket := os.Getenv("TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("TEST_S3_BUCKET not set")
	}
	store, err := New(context.Background(), Config{
		Bucket:          bucket,
		Region:          os.Getenv("TEST_S3_REGION"),
		Endpoint:        os.Getenv("TEST_S3_ENDPOINT"),
		AccessKeyID:     os.Getenv("TEST_S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("TEST_S3_SECRET_ACCESS_KEY"),
		PathStyle:       strings.EqualFold(os.Getenv("TEST_S3_PATH_STYLE"), "true"),
	})
	if err != nil {
		t.Skipf("s3 unavailable: %v", err)
	}
	kvtest.Run(t, store)
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}

func TestErrorClassification(t *testing.T) {
	if !isNotFound(fmt.Errorf("wrapped: %w", &types.NoSuchKey{})) {
		t.Fatalf("NoSuchKey should classify as not found")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatalf("plain error is not a not-found")
	}
	pf := &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "etag mismatch"}
	if !isPreconditionFailed(fmt.Errorf("put: %w", pf)) {
		t.Fatalf("PreconditionFailed should classify as a lost race")
	}
	conflict := &smithy.GenericAPIError{Code: "ConditionalRequestConflict"}
	if !isPreconditionFailed(conflict) {
		t.Fatalf("ConditionalRequestConflict should classify as a lost race")
	}
	if isPreconditionFailed(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Fatalf("AccessDenied is a real failure")
	}
}
