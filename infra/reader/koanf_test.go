package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corereader "github.com/kilianp07/hmcmod/core/reader"
)

const doc = `
modules:
  Grid:
    dims: [4, 4]
  Actions:
    gauge:
      name: Wilson
      beta: 5.4
    fermion:
      name: TwoFlavours
      Operator:
        name: Laplace
        mass: 0.1
`

func loadDoc(t *testing.T) *koanf.Koanf {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hmc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	k := koanf.New(".")
	require.NoError(t, k.Load(file.Provider(path), yaml.Parser()))
	return k
}

func TestPushPopRead(t *testing.T) {
	r, err := New(loadDoc(t), "modules")
	require.NoError(t, err)
	assert.Equal(t, "modules", r.Path())
	assert.Equal(t, []string{"Actions", "Grid"}, r.Keys())

	require.NoError(t, r.Push("Actions"))
	assert.Equal(t, []string{"fermion", "gauge"}, r.Keys())
	require.NoError(t, r.Push("gauge"))
	name, err := corereader.Read[string](r, "name")
	require.NoError(t, err)
	assert.Equal(t, "Wilson", name)
	beta, err := corereader.Read[float64](r, "beta")
	require.NoError(t, err)
	assert.Equal(t, 5.4, beta)
	require.NoError(t, r.Pop())

	require.NoError(t, r.Push("fermion"))
	require.NoError(t, r.Push("Operator"))
	assert.Equal(t, "modules.Actions.fermion.Operator", r.Path())
	mass, err := corereader.Read[float64](r, "mass")
	require.NoError(t, err)
	assert.Equal(t, 0.1, mass)
	require.NoError(t, r.Pop())
	require.NoError(t, r.Pop())
	require.NoError(t, r.Pop())
	assert.Equal(t, "modules", r.Path())

	assert.ErrorIs(t, r.Pop(), corereader.ErrConfiguration)
}

func TestReadSlice(t *testing.T) {
	r, err := New(loadDoc(t), "modules")
	require.NoError(t, err)
	require.NoError(t, r.Push("Grid"))
	dims, err := corereader.Read[[]int](r, "dims")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4}, dims)
}

func TestErrors(t *testing.T) {
	r, err := New(loadDoc(t), "modules")
	require.NoError(t, err)

	err = r.Push("Missing")
	assert.ErrorIs(t, err, corereader.ErrConfiguration)
	var cerr *corereader.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Missing", cerr.Key)
	assert.Equal(t, "modules", r.Path())

	require.NoError(t, r.Push("Actions"))
	require.NoError(t, r.Push("gauge"))
	assert.ErrorIs(t, r.Push("beta"), corereader.ErrConfiguration, "scalars are not sections")

	_, err = corereader.Read[float64](r, "c1")
	assert.ErrorIs(t, err, corereader.ErrConfiguration)
	_, err = corereader.Read[float64](r, "name")
	assert.ErrorIs(t, err, corereader.ErrConfiguration)

	_, err = New(loadDoc(t), "nowhere")
	assert.ErrorIs(t, err, corereader.ErrConfiguration)
}

func TestBind(t *testing.T) {
	type params struct {
		Name string  `json:"name"`
		Beta float64 `json:"beta"`
		C1   float64 `json:"c1,omitempty"`
	}
	r, err := FromMap(map[string]any{"name": "RBC", "beta": 2.13})
	require.NoError(t, err)
	var p params
	require.NoError(t, r.Bind(&p))
	assert.Equal(t, params{Name: "RBC", Beta: 2.13}, p)

	r, err = FromMap(map[string]any{"name": "RBC"})
	require.NoError(t, err)
	err = r.Bind(&p)
	var cerr *corereader.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "beta", cerr.Key)
}

func TestBindRejectsLossyIntegers(t *testing.T) {
	type params struct {
		N int    `json:"n"`
		U uint64 `json:"u,omitempty"`
	}
	tests := []struct {
		name string
		conf map[string]any
		want params
		err  bool
	}{
		{"whole float", map[string]any{"n": 200.0}, params{N: 200}, false},
		{"int", map[string]any{"n": 7, "u": 3}, params{N: 7, U: 3}, false},
		{"fractional", map[string]any{"n": 200.7}, params{}, true},
		{"negative unsigned", map[string]any{"n": 1, "u": -2.0}, params{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := FromMap(tt.conf)
			require.NoError(t, err)
			var p params
			err = r.Bind(&p)
			if tt.err {
				assert.ErrorIs(t, err, corereader.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}

	r, err := FromMap(map[string]any{"max_iterations": 200.7})
	require.NoError(t, err)
	_, err = corereader.Read[int](r, "max_iterations")
	assert.ErrorIs(t, err, corereader.ErrConfiguration)
}

func TestWithinAlwaysPops(t *testing.T) {
	r, err := New(loadDoc(t), "modules")
	require.NoError(t, err)
	err = corereader.Within(r, "Grid", func() error {
		_, err := corereader.Read[string](r, "missing")
		return err
	})
	assert.ErrorIs(t, err, corereader.ErrConfiguration)
	assert.Equal(t, "modules", r.Path())
}
