package reader

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	corereader "github.com/kilianp07/hmcmod/core/reader"
)

const delim = "."

var (
	errMissing  = errors.New("missing required key")
	errNoPush   = errors.New("pop without matching push")
	errNotTable = errors.New("not a section")
)

// Koanf implements corereader.Reader on top of a koanf instance.
type Koanf struct {
	k     *koanf.Koanf
	base  []string
	stack []string
}

var _ corereader.Reader = (*Koanf)(nil)

// New returns a reader rooted at the dotted path root of k. An empty root
// exposes the whole document.
func New(k *koanf.Koanf, root string) (*Koanf, error) {
	r := &Koanf{k: k}
	if root == "" {
		return r, nil
	}
	if !isSection(k, root) {
		return nil, &corereader.ConfigurationError{Section: root, Err: errNotTable}
	}
	r.base = strings.Split(root, delim)
	return r, nil
}

// FromMap builds a reader over an in-memory nested map.
func FromMap(m map[string]any) (*Koanf, error) {
	k := koanf.New(delim)
	if err := k.Load(confmap.Provider(m, delim), nil); err != nil {
		return nil, err
	}
	return New(k, "")
}

// Path returns the dotted path of the current section.
func (r *Koanf) Path() string {
	return strings.Join(r.segments(), delim)
}

func (r *Koanf) segments() []string {
	out := make([]string, 0, len(r.base)+len(r.stack))
	out = append(out, r.base...)
	return append(out, r.stack...)
}

func (r *Koanf) full(key string) string {
	if p := r.Path(); p != "" {
		return p + delim + key
	}
	return key
}

// Push enters a child section. Unknown sections and scalar keys are
// configuration errors.
func (r *Koanf) Push(section string) error {
	if !isSection(r.k, r.full(section)) {
		return &corereader.ConfigurationError{Section: r.Path(), Key: section, Err: errNotTable}
	}
	r.stack = append(r.stack, section)
	return nil
}

// Pop leaves the innermost section.
func (r *Koanf) Pop() error {
	if len(r.stack) == 0 {
		return &corereader.ConfigurationError{Section: r.Path(), Err: errNoPush}
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Has reports whether key exists in the current section.
func (r *Koanf) Has(key string) bool {
	return r.k.Exists(r.full(key))
}

// Keys returns the sorted child keys of the current section.
func (r *Koanf) Keys() []string {
	keys := make([]string, 0)
	for key := range r.section() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Read decodes a single value.
func (r *Koanf) Read(key string, out any) error {
	if !r.Has(key) {
		return &corereader.ConfigurationError{Section: r.Path(), Key: key, Err: errMissing}
	}
	if err := decode(r.k.Get(r.full(key)), out); err != nil {
		return &corereader.ConfigurationError{Section: r.Path(), Key: key, Err: err}
	}
	return nil
}

// Bind decodes the current section into the struct pointed to by out. Every
// exported field is required unless its json tag carries omitempty. Child
// sections that have no matching field are ignored.
func (r *Koanf) Bind(out any) error {
	data := r.section()
	if err := decode(data, out); err != nil {
		return &corereader.ConfigurationError{Section: r.Path(), Err: err}
	}
	for _, key := range requiredKeys(out) {
		if _, ok := data[key]; !ok {
			return &corereader.ConfigurationError{Section: r.Path(), Key: key, Err: errMissing}
		}
	}
	return nil
}

func (r *Koanf) section() map[string]any {
	p := r.Path()
	if p == "" {
		return r.k.Raw()
	}
	m, _ := r.k.Get(p).(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}

func isSection(k *koanf.Koanf, path string) bool {
	if !k.Exists(path) {
		return false
	}
	_, ok := k.Get(path).(map[string]any)
	return ok
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       integralHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// integralHook rejects floats that would lose their fractional part or sign
// when decoded into an integer field.
func integralHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	v := reflect.ValueOf(data).Float()
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v != math.Trunc(v) || v < 0 {
			return nil, fmt.Errorf("%v is not a non-negative integer", v)
		}
	}
	return data, nil
}

// requiredKeys lists the keys a struct expects, skipping omitempty fields.
func requiredKeys(out any) []string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || strings.Contains(opts, "omitempty") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}
