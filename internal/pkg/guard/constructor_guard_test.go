package guard_test

import (
	"errors"
	"testing"

	"agromarket/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errors.New("not constructed"))

		// Then
		require.NoError(t, err)
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("Order must be created via NewOrder")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuardEmbedded shows the guard embedded in a value object, the way
// kernel.Money and the command types use it.
func TestConstructorGuardEmbedded(t *testing.T) {
	errCropNotConstructed := errors.New("Crop must be created via NewCrop")

	type Crop struct {
		name  string
		guard guard.ConstructorGuard
	}

	newCrop := func(name string) (Crop, error) {
		if name == "" {
			return Crop{}, errors.New("crop name is required")
		}
		return Crop{name: name, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_validates", func(t *testing.T) {
		crop, err := newCrop("Coco Verde")

		require.NoError(t, err)
		require.NoError(t, crop.guard.Validate(errCropNotConstructed))
		assert.Equal(t, "Coco Verde", crop.name)
	})

	t.Run("zero_value_fails", func(t *testing.T) {
		var crop Crop

		assert.Equal(t, errCropNotConstructed, crop.guard.Validate(errCropNotConstructed))
	})

	t.Run("copy_keeps_constructed_state", func(t *testing.T) {
		crop, err := newCrop("Coco Seco")
		require.NoError(t, err)

		cropCopy := crop

		require.NoError(t, cropCopy.guard.Validate(errCropNotConstructed))
	})
}

func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 500 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}
