package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp25.000", FormatIDR(25000))
	assert.Equal(t, "Rp92.000", FormatIDR(92000))
	assert.Equal(t, "Rp1.250.000", FormatIDR(1250000))
	assert.Equal(t, "Rp0", FormatIDR(0))
}
