//go:build unit

package entities_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/autosync/internal/domain/entities"
)

func TestIsNonFastForward(t *testing.T) {
	t.Parallel()

	t.Run("should detect a wrapped non-fast-forward push error", func(t *testing.T) {
		t.Parallel()

		// given
		cause := errors.New("non-fast-forward update")
		err := fmt.Errorf("sync: %w", &entities.PushError{
			RemoteName: "github",
			Kind:       entities.PushRejectedNonFastForward,
			Err:        cause,
		})

		// when
		result := entities.IsNonFastForward(err)

		// then
		assert.True(t, result)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), `push to "github" failed (non-fast-forward)`)
	})

	t.Run("should not treat other push failures as non-fast-forward", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.PushError{RemoteName: "github", Kind: entities.PushFailedOther, Err: errors.New("403")}

		// when
		result := entities.IsNonFastForward(err)

		// then
		assert.False(t, result)
	})

	t.Run("should not treat plain errors as non-fast-forward", func(t *testing.T) {
		t.Parallel()

		// when
		result := entities.IsNonFastForward(errors.New("non-fast-forward"))

		// then
		assert.False(t, result)
	})
}

func TestFallbackCloneURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host     string
		expected string
	}{
		{"github.com", "https://github.com/alice/notes.git"},
		{"https://gitlab.example.com/", "https://gitlab.example.com/alice/notes.git"},
		{"http://127.0.0.1:8080", "https://127.0.0.1:8080/alice/notes.git"},
	}

	for _, tt := range tests {
		t.Run("should build the clone URL for "+tt.host, func(t *testing.T) {
			t.Parallel()

			// when
			url := entities.FallbackCloneURL(tt.host, "alice", "notes")

			// then
			assert.Equal(t, tt.expected, url)
		})
	}
}
