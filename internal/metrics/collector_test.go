package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_ObserveValidation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("promptshape", reg, nil)

	c.ObserveValidation("user", true, 5*time.Millisecond)
	c.ObserveValidation("user", true, 3*time.Millisecond)
	c.ObserveValidation("user", false, 1*time.Millisecond)

	ok := c.validationsTotal.WithLabelValues("user", "ok")
	assert.Equal(t, float64(2), testutil.ToFloat64(ok))

	failed := c.validationsTotal.WithLabelValues("user", "error")
	assert.Equal(t, float64(1), testutil.ToFloat64(failed))
}

func TestCollector_CountError(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("promptshape", reg, nil)

	c.CountError("user", "missing_field")
	c.CountError("user", "missing_field")
	c.CountError("user", "type_mismatch")

	missing := c.validationErrors.WithLabelValues("user", "missing_field")
	assert.Equal(t, float64(2), testutil.ToFloat64(missing))

	mismatch := c.validationErrors.WithLabelValues("user", "type_mismatch")
	assert.Equal(t, float64(1), testutil.ToFloat64(mismatch))
}

func TestCollector_RegistersAgainstGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("promptshape", reg, nil)
	c.ObserveValidation("user", true, time.Millisecond)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.GetName()
	}
	assert.Contains(t, names, "promptshape_validations_total")
	assert.Contains(t, names, "promptshape_validation_duration_seconds")
}
