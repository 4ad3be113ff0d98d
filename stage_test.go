package erldoc_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/erldoc"
	"github.com/stretchr/testify/assert"
)

func TestNewFailure(t *testing.T) {
	t.Parallel()

	t.Run("keeps application error code and message", func(t *testing.T) {
		t.Parallel()

		f := erldoc.NewFailure("re", erldoc.StageFetching, erldoc.HTTPErrorf(404, "HTTP 404 for http://erlang.org/doc/man/re.html"))

		assert.Equal(t, &erldoc.Failure{
			Module:  "re",
			Stage:   erldoc.StageFetching,
			Kind:    erldoc.EHTTP,
			Message: "HTTP 404 for http://erlang.org/doc/man/re.html",
		}, f)
		assert.Equal(t, "re: fetching: http: HTTP 404 for http://erlang.org/doc/man/re.html", f.Error())
	})

	t.Run("uses raw message for foreign errors", func(t *testing.T) {
		t.Parallel()

		f := erldoc.NewFailure("app", erldoc.StageWriting, errors.New("unexpected"))

		assert.Equal(t, erldoc.EINTERNAL, f.Kind)
		assert.Equal(t, "unexpected", f.Message)
	})
}
