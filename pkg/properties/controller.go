package properties

import (
	"fmt"
	"log"
	"slices"
	"sync"
)

// Controller is the properties engine surface the harness uses
type Controller interface {
	GetPropertyValue(id string) (interface{}, bool)
	UpdatePropertyValue(id string, value interface{}) error
	GetPropertyValues() map[string]interface{}
	IsVisible(id string) bool
}

// MemoryController keeps property values for one parameter definition
type MemoryController struct {
	mu         sync.RWMutex
	def        *ParameterDef
	values     map[string]interface{}
	conditions *conditionEvaluator
	listeners  []func(id string, value interface{})
}

// NewMemoryController creates a controller holding the definition's
// defaults. Every visible_when condition must compile.
func NewMemoryController(def *ParameterDef) (*MemoryController, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: nil definition", ErrInvalidParameterDef)
	}

	c := &MemoryController{
		def:        def,
		values:     make(map[string]interface{}, len(def.Parameters)),
		conditions: newConditionEvaluator(),
	}

	for _, p := range def.Parameters {
		if p.VisibleWhen != "" {
			if err := c.conditions.check(p.VisibleWhen); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.ID, err)
			}
		}
		if p.Default != nil {
			v, err := coerce(p, p.Default)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.ID, err)
			}
			c.values[p.ID] = v
		}
	}

	return c, nil
}

// Definition returns the parameter definition
func (c *MemoryController) Definition() *ParameterDef {
	return c.def
}

// OnChange registers fn to be called after each successful update
func (c *MemoryController) OnChange(fn func(id string, value interface{})) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, fn)
}

// GetPropertyValue returns the current value of a property
func (c *MemoryController) GetPropertyValue(id string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.values[id]
	return v, ok
}

// UpdatePropertyValue sets a property after checking its type. A nil value
// restores the default.
func (c *MemoryController) UpdatePropertyValue(id string, value interface{}) error {
	p, ok := c.def.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, id)
	}

	if value == nil {
		value = p.Default
	}
	var err error
	if value != nil {
		value, err = coerce(p, value)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}

	c.mu.Lock()
	if value == nil {
		delete(c.values, id)
	} else {
		c.values[id] = value
	}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	log.Printf("properties: %s = %v", id, value)
	for _, fn := range listeners {
		fn(id, value)
	}
	return nil
}

// GetPropertyValues returns a copy of all set values
func (c *MemoryController) GetPropertyValues() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]interface{}, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// IsVisible evaluates the property's visible_when condition. Unknown
// properties are hidden; a condition that fails at run time hides it too.
func (c *MemoryController) IsVisible(id string) bool {
	p, ok := c.def.Find(id)
	if !ok {
		return false
	}
	if p.VisibleWhen == "" {
		return true
	}

	visible, err := c.conditions.evaluate(p.VisibleWhen, c.GetPropertyValues())
	if err != nil {
		log.Printf("properties: condition for %s: %v", id, err)
		return false
	}
	return visible
}

// VisibleParameters returns the parameters currently shown, in order
func (c *MemoryController) VisibleParameters() []Parameter {
	out := make([]Parameter, 0, len(c.def.Parameters))
	for _, p := range c.def.Parameters {
		if c.IsVisible(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

var _ Controller = (*MemoryController)(nil)
