package clearurls

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVet(t *testing.T) {
	rules := `{
  "providers": {
    "good": {"urlPattern": ".*", "rules": ["a"], "redirections": ["u=([^&]+)"]},
    "badRule": {"urlPattern": ".*", "rules": ["(", "ok", "[z-a]"]},
    "noCapture": {"urlPattern": ".*", "redirections": ["u=.*"]},
    "noPattern": {"rules": ["a"]},
    "notAList": {"urlPattern": ".*", "rules": {"a": 1}},
    "alsoGood": {"urlPattern": "^https?://example\\.com"}
  }
}`
	good, errs := Preprocessor.Vet([]byte(rules))
	assert.Equal(t, []string{"good", "alsoGood"}, good)
	assert.Len(t, errs, 5, "every broken pattern should be reported: %v", errs)

	var loadErrs, redirErrs int
	for _, err := range errs {
		var loadErr *RuleLoadError
		var redirErr *RedirectionError
		switch {
		case errors.As(err, &loadErr):
			loadErrs++
		case errors.As(err, &redirErr):
			redirErrs++
			assert.Equal(t, "noCapture", redirErr.Provider)
		}
	}
	assert.Equal(t, 4, loadErrs)
	assert.Equal(t, 1, redirErrs)

	// Load is stricter than Vet only on compile errors; the missing capture
	// group is accepted until it matches.
	_, err := Load([]byte(`{"providers": {"noCapture": {"urlPattern": ".*", "redirections": ["u=.*"]}}}`))
	assert.NoError(t, err)
}

func TestVetUnparseable(t *testing.T) {
	good, errs := Preprocessor.Vet([]byte("{unterminated"))
	assert.Empty(t, good)
	assert.Len(t, errs, 1)
}
