package dynamodb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestAPIErrorCode(t *testing.T) {
	notFound := &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "table missing"}

	assert.Equal(t, "ResourceNotFoundException", apiErrorCode(notFound))
	assert.Equal(t, "ResourceNotFoundException", apiErrorCode(fmt.Errorf("describe: %w", notFound)))
	assert.Empty(t, apiErrorCode(errors.New("dial tcp: connection refused")))
}
