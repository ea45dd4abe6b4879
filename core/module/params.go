package module

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/kilianp07/hmcmod/core/logger"
	"github.com/kilianp07/hmcmod/core/reader"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NoParameters is the parameter struct of modules that take none.
type NoParameters struct{}

// Parametrized owns a parameter struct bound from configuration.
type Parametrized[Par any] struct {
	par Par
}

// NewParametrized wraps already bound parameters.
func NewParametrized[Par any](par Par) Parametrized[Par] {
	return Parametrized[Par]{par: par}
}

// BindParameters reads the current section of r into a Par and validates
// the result against its validate tags.
func BindParameters[Par any](r reader.Reader) (Parametrized[Par], error) {
	var par Par
	if err := r.Bind(&par); err != nil {
		return Parametrized[Par]{}, err
	}
	if err := validateParameters(r.Path(), &par); err != nil {
		return Parametrized[Par]{}, err
	}
	return Parametrized[Par]{par: par}, nil
}

func validateParameters(section string, par any) error {
	if reflect.Indirect(reflect.ValueOf(par)).Kind() != reflect.Struct {
		return nil
	}
	err := validate.Struct(par)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return reader.Errorf(section, fe.Field(), "value %v fails %q", fe.Value(), fe.Tag())
	}
	return &reader.ConfigurationError{Section: section, Err: err}
}

// Parameters returns a copy of the bound parameters.
func (p Parametrized[Par]) Parameters() Par { return p.par }

// ParameterFields flattens the parameters into a map keyed by json name.
func (p Parametrized[Par]) ParameterFields() map[string]any {
	fields := map[string]any{}
	if reflect.Indirect(reflect.ValueOf(p.par)).Kind() != reflect.Struct {
		fields["value"] = p.par
		return fields
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &fields})
	if err == nil {
		err = dec.Decode(p.par)
	}
	if err != nil {
		fields["error"] = fmt.Sprintf("%v", err)
	}
	return fields
}

// PrintParameters logs the bound parameter values.
func (p Parametrized[Par]) PrintParameters(log logger.Logger) {
	log.Infow("parameters", p.ParameterFields())
}
