package factory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/hmcmod/core/factory"
	"github.com/kilianp07/hmcmod/core/module"
	corereader "github.com/kilianp07/hmcmod/core/reader"
	"github.com/kilianp07/hmcmod/infra/reader"
)

type betaProduct struct{ Beta float64 }

type betaParams struct {
	Beta float64 `json:"beta"`
}

func newBetaModule(r *reader.Koanf) (module.Module[*betaProduct], error) {
	return module.New("Beta", r, func(p betaParams) (*betaProduct, error) {
		return &betaProduct{Beta: p.Beta}, nil
	})
}

func mustReader(t *testing.T, m map[string]any) *reader.Koanf {
	t.Helper()
	r, err := reader.FromMap(m)
	require.NoError(t, err)
	return r
}

func TestRegistry_CreateRoundTrip(t *testing.T) {
	reg := factory.NewRegistry[*betaProduct, *reader.Koanf]()
	require.NoError(t, reg.Register("Beta", newBetaModule))

	m, err := reg.Create("Beta", mustReader(t, map[string]any{"beta": 5.4}))
	require.NoError(t, err)
	p, err := m.Product()
	require.NoError(t, err)
	assert.Equal(t, 5.4, p.Beta)
}

func TestRegistry_CreateCallsConstructorOnce(t *testing.T) {
	reg := factory.NewRegistry[*betaProduct, *reader.Koanf]()
	calls := 0
	var seen *reader.Koanf
	require.NoError(t, reg.Register("Beta", func(r *reader.Koanf) (module.Module[*betaProduct], error) {
		calls++
		seen = r
		return newBetaModule(r)
	}))
	r := mustReader(t, map[string]any{"beta": 1.0})
	_, err := reg.Create("Beta", r)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Same(t, r, seen)
}

func TestRegistry_UnknownIdentifier(t *testing.T) {
	reg := factory.NewRegistry[*betaProduct, *reader.Koanf]()
	calls := 0
	require.NoError(t, reg.Register("Beta", func(r *reader.Koanf) (module.Module[*betaProduct], error) {
		calls++
		return newBetaModule(r)
	}))

	m, err := reg.Create("beta", mustReader(t, map[string]any{"beta": 1.0}))
	assert.Nil(t, m)
	assert.ErrorIs(t, err, factory.ErrFactoryLookup)
	var lerr *factory.FactoryLookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "beta", lerr.ID)
	assert.Equal(t, "*factory_test.betaProduct", lerr.ProductType)
	assert.Equal(t, []string{"Beta"}, lerr.Known)
	assert.Contains(t, err.Error(), "beta")
	assert.Equal(t, 0, calls)
}

func TestRegistry_ConstructorError(t *testing.T) {
	reg := factory.NewRegistry[*betaProduct, *reader.Koanf]()
	require.NoError(t, reg.Register("Beta", newBetaModule))
	_, err := reg.Create("Beta", mustReader(t, map[string]any{}))
	assert.ErrorIs(t, err, corereader.ErrConfiguration)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	reg := factory.NewRegistry[*betaProduct, *reader.Koanf]()
	first := func(r *reader.Koanf) (module.Module[*betaProduct], error) { return newBetaModule(r) }
	second := func(*reader.Koanf) (module.Module[*betaProduct], error) { return nil, errors.New("second") }
	require.NoError(t, reg.Register("Beta", first))
	assert.ErrorIs(t, reg.Register("Beta", second), factory.ErrDuplicateIdentifier)
	assert.Error(t, reg.Register("Nil", nil))

	m, err := reg.Create("Beta", mustReader(t, map[string]any{"beta": 3.0}))
	require.NoError(t, err)
	p, err := m.Product()
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.Beta)
	assert.Equal(t, []string{"Beta"}, reg.Names())
	assert.True(t, reg.Has("Beta"))
	assert.False(t, reg.Has("Nil"))
}

type instanceProduct struct{}

type otherProduct struct{}

func TestInstance_Singleton(t *testing.T) {
	a := factory.Instance[*instanceProduct, *reader.Koanf]()
	b := factory.Instance[*instanceProduct, *reader.Koanf]()
	c := factory.Instance[*otherProduct, *reader.Koanf]()
	d := factory.Instance[*instanceProduct, corereader.Reader]()
	assert.Same(t, a, b)
	assert.NotSame(t, any(a), any(c))
	assert.NotSame(t, any(a), any(d))
}

func TestRegistrar(t *testing.T) {
	reg := factory.NewRegistry[*betaProduct, *reader.Koanf]()
	rr := factory.NewRegistrar(reg, "Beta", newBetaModule)
	assert.Equal(t, "Beta", rr.ID)
	assert.Equal(t, reg.ProductType(), rr.ProductType)
	assert.True(t, reg.Has("Beta"))
	assert.Panics(t, func() { factory.NewRegistrar(reg, "Beta", newBetaModule) })
}
