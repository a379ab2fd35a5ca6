package proxypool

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

func setDefaultValues(obj any) {
	tof := reflect.TypeOf(obj).Elem()
	vof := reflect.ValueOf(obj).Elem()

	for i := 0; i < vof.NumField(); i++ {
		vf := vof.Field(i)
		v := tof.Field(i).Tag.Get("default")

		if v == "" || !vf.IsZero() {
			continue
		}

		switch vf.Kind() {
		case reflect.String:
			vf.SetString(v)
		case reflect.Int:
			if intv, err := strconv.ParseInt(v, 10, 64); err == nil {
				vf.SetInt(intv)
			}
		case reflect.Bool:
			if b, err := strconv.ParseBool(v); err == nil {
				vf.SetBool(b)
			}
		}
	}
}

type fieldError struct {
	Field string
	Msg   string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Msg)
}

// validate understands "required", "min=N" (ints) and "oneof=a b c" (strings).
func validate(obj any) error {
	tof := reflect.TypeOf(obj).Elem()
	vof := reflect.ValueOf(obj).Elem()

	for i := 0; i < vof.NumField(); i++ {
		tf := tof.Field(i)
		vf := vof.Field(i)

		v := tf.Tag.Get("validate")
		if v == "" {
			continue
		}

		for _, rule := range strings.Split(v, ",") {
			name, arg, _ := strings.Cut(rule, "=")

			switch name {
			case "required":
				if vf.IsZero() {
					return &fieldError{tf.Name, "is required"}
				}
			case "min":
				n, err := strconv.ParseInt(arg, 10, 64)
				if err == nil && vf.Kind() == reflect.Int && vf.Int() < n {
					return &fieldError{tf.Name, fmt.Sprintf("must be at least %d, got %d", n, vf.Int())}
				}
			case "oneof":
				if vf.Kind() == reflect.String && !slices.Contains(strings.Fields(arg), vf.String()) {
					return &fieldError{tf.Name, fmt.Sprintf("must be one of [%s], got %q", arg, vf.String())}
				}
			}
		}
	}
	return nil
}
