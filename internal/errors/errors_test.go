package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type positionErr struct{ line int }

func (p *positionErr) Error() string { return fmt.Sprintf("bad token on line %d", p.line) }

func TestWrap_PreservesCause(t *testing.T) {
	cause := &positionErr{line: 3}
	err := ParseError(cause, "failed to parse source")

	require.NotNil(t, err)
	assert.Equal(t, "failed to parse source: bad token on line 3", err.Error())
	assert.Equal(t, ErrorTypeParse, GetType(err))
	assert.Equal(t, SeverityMedium, GetSeverity(err))

	var pos *positionErr
	require.True(t, stderrors.As(err, &pos))
	assert.Equal(t, 3, pos.line)
}

func TestWrap_NilCause(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, SeverityLow, "nothing"))
}

func TestIsType_ThroughFmtWrap(t *testing.T) {
	inner := ResourceLimitError(fmt.Errorf("too deep"), "limit")
	outer := fmt.Errorf("analyze upload: %w", inner)

	assert.True(t, IsType(outer, ErrorTypeResourceLimit))
	assert.False(t, IsType(outer, ErrorTypeParse))
	assert.Equal(t, ErrorTypeResourceLimit, GetType(outer))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeParse))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ConfigError("missing")))
	assert.False(t, IsFatal(ValidationError("bad input")))
	assert.False(t, IsFatal(nil))
}

func TestDetailedString(t *testing.T) {
	err := ValidationErrorf("threshold %s is negative", "max_depth").WithContext("value", -1)
	detail := err.DetailedString()
	assert.Contains(t, detail, "[HIGH] [VALIDATION] threshold max_depth is negative")
	assert.Contains(t, detail, "value: -1")
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "RESOURCE_LIMIT", ErrorTypeResourceLimit.String())
	assert.Equal(t, "UNKNOWN", ErrorType(99).String())
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
}

func TestIsInput(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"parse", ParseError(fmt.Errorf("bad"), "failed to parse source"), true},
		{"limit", fmt.Errorf("wrapped: %w", ResourceLimitError(fmt.Errorf("deep"), "analysis aborted")), true},
		{"validation", ValidationError("negative threshold"), true},
		{"internal", InternalError(fmt.Errorf("boom"), "analysis failed"), false},
		{"plain", fmt.Errorf("plain"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInput(tt.err))
		})
	}
}
