package tags

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/metrics"
)

type countingRecorder struct {
	metrics.NoopRecorder
	results map[string][]metrics.DispatchResult
}

func (c *countingRecorder) IncTagDispatch(tag string, result metrics.DispatchResult) {
	c.results[tag] = append(c.results[tag], result)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	h := HandlerFunc(Description)

	require.NoError(t, r.Register("description", h))
	assert.True(t, r.Has("description"))
	assert.Equal(t, 1, r.Count())

	err := r.Register("description", h)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	assert.Error(t, r.Register("", h))
	assert.Error(t, r.Register("x", nil))
}

func TestRegistryUnregister(t *testing.T) {
	r := NewStandardRegistry()
	require.NoError(t, r.Unregister("see"))
	assert.False(t, r.Has("see"))

	err := r.Unregister("see")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewStandardRegistry()
	assert.Panics(t, func() { r.MustRegister("param", HandlerFunc(Param)) })
}

func TestStandardRegistryNames(t *testing.T) {
	names := NewStandardRegistry().Names()
	for _, want := range []string{"param", "description", "example", "returns", "ngdoc"} {
		assert.Contains(t, names, want)
	}
	assert.IsIncreasing(t, names)
}

func TestDispatch(t *testing.T) {
	rec := &countingRecorder{results: map[string][]metrics.DispatchResult{}}
	r := NewStandardRegistry(WithRecorder(rec))
	doc := docrecord.New()

	assert.True(t, r.Dispatch(doc, "param", "{number} a first"))
	assert.True(t, r.Dispatch(doc, "description", "one"))
	assert.True(t, r.Dispatch(doc, "param", "{number} b second"))
	assert.True(t, r.Dispatch(doc, "description", "two"))

	require.Len(t, doc.Param, 2)
	assert.Equal(t, "a", doc.Param[0].Name)
	assert.Equal(t, "b", doc.Param[1].Name)
	assert.Equal(t, "two", doc.Description)
	assert.Equal(t, []metrics.DispatchResult{metrics.DispatchHandled, metrics.DispatchHandled}, rec.results["param"])
}

func TestDispatchUnknownTagIsInert(t *testing.T) {
	rec := &countingRecorder{results: map[string][]metrics.DispatchResult{}}
	r := NewStandardRegistry(WithRecorder(rec))
	doc := docrecord.New()

	assert.False(t, r.Dispatch(doc, "todo", "rewrite this"))
	assert.Equal(t, docrecord.New(), doc)
	assert.Equal(t, []metrics.DispatchResult{metrics.DispatchIgnored}, rec.results["todo"])
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	var logs bytes.Buffer
	rec := &countingRecorder{results: map[string][]metrics.DispatchResult{}}
	r := NewRegistry(WithRecorder(rec), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	r.MustRegister("broken", HandlerFunc(func(*docrecord.Record, string, string) {
		panic("index out of range")
	}))

	doc := docrecord.New()
	assert.NotPanics(t, func() { r.Dispatch(doc, "broken", "x") })
	require.Len(t, doc.Diagnostics, 1)
	assert.Contains(t, doc.Diagnostics[0].Message, "index out of range")
	assert.Equal(t, []metrics.DispatchResult{metrics.DispatchRecovered}, rec.results["broken"])
	assert.True(t, strings.Contains(logs.String(), "tag=broken"))
}

func TestPackageDispatchUsesDefaultRegistry(t *testing.T) {
	doc := docrecord.New()
	assert.True(t, Dispatch(doc, "example", "text {{ abc }}"))
	assert.Equal(t, "text {{ abc }}", doc.Example)
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}
