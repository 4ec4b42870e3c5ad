package rules

import "fmt"

// Thresholds parameterize the built-in rules
type Thresholds struct {
	MaxFunctionStatements int       `yaml:"max_function_statements" mapstructure:"max_function_statements"`
	MaxClassMethods       int       `yaml:"max_class_methods" mapstructure:"max_class_methods"`
	MaxLineLength         int       `yaml:"max_line_length" mapstructure:"max_line_length"`
	MaxOpenParens         int       `yaml:"max_open_parens" mapstructure:"max_open_parens"`
	LineWidth             WidthMode `yaml:"line_width" mapstructure:"line_width"`
}

// DefaultThresholds returns the stock thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxFunctionStatements: 10,
		MaxClassMethods:       20,
		MaxLineLength:         80,
		MaxOpenParens:         3,
		LineWidth:             WidthRunes,
	}
}

// Validate rejects thresholds the rules cannot work with
func (t Thresholds) Validate() error {
	if t.MaxFunctionStatements < 0 {
		return fmt.Errorf("max_function_statements must not be negative")
	}
	if t.MaxClassMethods < 0 {
		return fmt.Errorf("max_class_methods must not be negative")
	}
	if t.MaxLineLength < 0 {
		return fmt.Errorf("max_line_length must not be negative")
	}
	if t.MaxOpenParens < 0 {
		return fmt.Errorf("max_open_parens must not be negative")
	}
	if !t.LineWidth.Valid() {
		return fmt.Errorf("line_width must be %q or %q, got %q", WidthRunes, WidthColumns, t.LineWidth)
	}
	return nil
}

// Default builds the registry with every built-in rule in reporting order
func Default(t Thresholds) *Registry {
	r := NewRegistry()
	for _, rule := range []NodeRule{
		LongFunction{Max: t.MaxFunctionStatements},
		LargeClass{Max: t.MaxClassMethods},
		NestedLoop{},
		SingletonInstance{},
	} {
		mustRegister(r.RegisterNode(rule))
	}
	for _, rule := range []LineRule{
		LineLength{Max: t.MaxLineLength, Width: t.LineWidth},
		ComplexExpression{MaxParens: t.MaxOpenParens},
		PoorFunctionName{},
	} {
		mustRegister(r.RegisterLine(rule))
	}
	return r
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
