package config

import (
	"fmt"
	"strconv"
)

type param interface {
	key() string
	service() string
	emptyValue() paramValue
}

type paramImpl struct {
	paramKey string
	paramSvc string
}

func (p paramImpl) emptyValue() paramValue {
	panic("not supported")
}

func (p paramImpl) key() string {
	return p.paramKey
}

func (p paramImpl) service() string {
	return p.paramSvc
}

func (p paramImpl) String() string {
	return "{key: " + p.paramKey + "; service: " + p.paramSvc + "}"
}

// StringParam represents params of string type
type StringParam struct {
	paramImpl
}

func newStringParam(key string, service string) StringParam {
	return StringParam{paramImpl{paramKey: key, paramSvc: service}}
}

func (p StringParam) emptyValue() paramValue {
	return StringVal{val: new(string)}
}

// IntParam represents params of int type
type IntParam struct {
	paramImpl
}

func newIntParam(key string, service string) IntParam {
	return IntParam{paramImpl{paramKey: key, paramSvc: service}}
}

func (p IntParam) emptyValue() paramValue {
	return IntVal{val: new(int)}
}

// BoolParam represents params of bool type
type BoolParam struct {
	paramImpl
}

func newBoolParam(key string, service string) BoolParam {
	return BoolParam{paramImpl{paramKey: key, paramSvc: service}}
}

func (p BoolParam) emptyValue() paramValue {
	return BoolVal{val: new(bool)}
}

type paramValue interface {
	setValue(newVal interface{}) error
}

// StringVal represents a string param value
type StringVal struct {
	val *string
}

// NewStringVal creates a string value instance.
// Avoid using directly for anything other than unit testing
func NewStringVal(initialValue string) StringVal {
	return StringVal{val: &initialValue}
}

// Value returns underlying value of a given param
func (val StringVal) Value() string {
	return *val.val
}

func (val StringVal) setValue(newVal interface{}) error {
	strVal, ok := newVal.(string)
	if !ok {
		return fmt.Errorf("Expected string value but got: %v(%[1]T)", newVal)
	}
	*val.val = strVal
	return nil
}

// IntVal represents an int param value
type IntVal struct {
	val *int
}

// NewIntVal creates an int value instance.
// Avoid using directly for anything other than unit testing
func NewIntVal(initialValue int) IntVal {
	return IntVal{val: &initialValue}
}

// Value returns underlying value of a given param
func (val IntVal) Value() int {
	return *val.val
}

func (val IntVal) setValue(newVal interface{}) error {
	switch typedVal := newVal.(type) {
	case int:
		*val.val = typedVal
		return nil
	case float32:
		*val.val = int(typedVal)
		return nil
	case float64:
		*val.val = int(typedVal)
		return nil
	case string:
		if intVal, err := strconv.Atoi(typedVal); err == nil {
			*val.val = intVal
			return nil
		}
	}
	return fmt.Errorf("Expected int value but got: %v(%[1]T)", newVal)
}

// BoolVal represents a bool param value
type BoolVal struct {
	val *bool
}

// NewBoolVal creates a bool value instance.
// Avoid using directly for anything other than unit testing
func NewBoolVal(initialValue bool) BoolVal {
	return BoolVal{val: &initialValue}
}

// Value returns underlying value of a given param
func (val BoolVal) Value() bool {
	return *val.val
}

func (val BoolVal) setValue(newVal interface{}) error {
	switch typedVal := newVal.(type) {
	case bool:
		*val.val = typedVal
		return nil
	case string:
		if boolVal, err := strconv.ParseBool(typedVal); err == nil {
			*val.val = boolVal
			return nil
		}
	}
	return fmt.Errorf("Expected bool value but got: %v(%[1]T)", newVal)
}
