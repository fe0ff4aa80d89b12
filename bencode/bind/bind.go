package bind

import (
	"fmt"
	"reflect"

	"github.com/mertwole/bencode-cli/bencode/value"
)

const fieldTag = "bencode"

var valueType = reflect.TypeFor[value.Value]()

// Into stores a decoded value in the structure pointed to by target.
//
// Dictionaries fill structs (keys matched by `bencode` tag or field name,
// unknown keys are ignored, pointer fields stay nil when absent) and
// map[string]T. Lists fill slices, byte strings fill string and []byte,
// integers fill any integer kind. A value.Value field receives the subtree
// as is.
func Into(v value.Value, target any) error {
	if target == nil {
		return fmt.Errorf("wrong target type: expected pointer, got nil")
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Pointer || targetValue.IsNil() {
		return fmt.Errorf("wrong target type: expected non-nil pointer, got %s", targetValue.Type())
	}

	return bind(v, targetValue.Elem())
}

func bind(v value.Value, entity reflect.Value) error {
	if !entity.CanSet() {
		return fmt.Errorf("cannot set value of type %s", entity.Type())
	}

	if entity.Type() == valueType {
		entity.Set(reflect.ValueOf(v))
		return nil
	}

	if entity.Kind() == reflect.Pointer {
		newEntity := reflect.New(entity.Type().Elem())
		err := bind(v, newEntity.Elem())
		if err != nil {
			return err
		}

		entity.Set(newEntity)
		return nil
	}

	switch v.Kind() {
	case value.Int:
		err := bindInt(v, entity)
		if err != nil {
			return fmt.Errorf("failed to bind int: %w", err)
		}
	case value.Bytes:
		err := bindString(v, entity)
		if err != nil {
			return fmt.Errorf("failed to bind string: %w", err)
		}
	case value.List:
		err := bindList(v, entity)
		if err != nil {
			return fmt.Errorf("failed to bind list: %w", err)
		}
	case value.Dict:
		err := bindDictionary(v, entity)
		if err != nil {
			return fmt.Errorf("failed to bind dictionary: %w", err)
		}
	default:
		return fmt.Errorf("cannot bind %s value", v.Kind())
	}

	return nil
}

func bindInt(v value.Value, entity reflect.Value) error {
	integer, _ := v.AsInt()

	switch entity.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if entity.OverflowInt(integer) {
			return fmt.Errorf("value %d overflows %s", integer, entity.Type())
		}

		entity.SetInt(integer)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if integer < 0 || entity.OverflowUint(uint64(integer)) {
			return fmt.Errorf("value %d overflows %s", integer, entity.Type())
		}

		entity.SetUint(uint64(integer))
	case reflect.Interface:
		if entity.NumMethod() != 0 {
			return fmt.Errorf("wrong field type: expected integer, got %s", entity.Type())
		}

		entity.Set(reflect.ValueOf(integer))
	default:
		return fmt.Errorf("wrong field type: expected integer, got %s", entity.Type())
	}

	return nil
}

func bindString(v value.Value, entity reflect.Value) error {
	data, _ := v.AsBytes()

	switch {
	case entity.Kind() == reflect.String:
		entity.SetString(string(data))
	case entity.Kind() == reflect.Slice && entity.Type().Elem().Kind() == reflect.Uint8:
		entity.SetBytes(append([]byte(nil), data...))
	case entity.Kind() == reflect.Array && entity.Type().Elem().Kind() == reflect.Uint8:
		if entity.Len() != len(data) {
			return fmt.Errorf("wrong length: expected %d bytes, got %d", entity.Len(), len(data))
		}

		reflect.Copy(entity, reflect.ValueOf(data))
	case entity.Kind() == reflect.Interface && entity.NumMethod() == 0:
		entity.Set(reflect.ValueOf(string(data)))
	default:
		return fmt.Errorf("wrong field type: expected string, got %s", entity.Type())
	}

	return nil
}

func bindList(v value.Value, entity reflect.Value) error {
	list, _ := v.AsList()

	if entity.Kind() == reflect.Interface && entity.NumMethod() == 0 {
		native := make([]any, len(list))
		err := bindList(v, reflect.ValueOf(&native).Elem())
		if err != nil {
			return err
		}

		entity.Set(reflect.ValueOf(native))
		return nil
	}

	if entity.Kind() != reflect.Slice {
		return fmt.Errorf("wrong field type: expected slice, got %s", entity.Type())
	}

	newList := reflect.MakeSlice(entity.Type(), len(list), len(list))
	for i, element := range list {
		err := bind(element, newList.Index(i))
		if err != nil {
			return fmt.Errorf("failed to bind list element %d: %w", i, err)
		}
	}

	entity.Set(newList)

	return nil
}

func bindDictionary(v value.Value, entity reflect.Value) error {
	switch {
	case entity.Kind() == reflect.Struct:
		return bindStruct(v, entity)
	case entity.Kind() == reflect.Map && entity.Type().Key().Kind() == reflect.String:
		return bindMap(v, entity)
	case entity.Kind() == reflect.Interface && entity.NumMethod() == 0:
		native := make(map[string]any)
		err := bindMap(v, reflect.ValueOf(&native).Elem())
		if err != nil {
			return err
		}

		entity.Set(reflect.ValueOf(native))
		return nil
	default:
		return fmt.Errorf("wrong field type: expected struct or map, got %s", entity.Type())
	}
}

func bindStruct(v value.Value, entity reflect.Value) error {
	nameMapping := make(map[string]int)
	for i := range entity.NumField() {
		field := entity.Type().Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(fieldTag)
		if tag == "-" {
			continue
		}

		var mapKey string
		if tag != "" {
			mapKey = tag
		} else {
			mapKey = field.Name
		}

		_, keyAlreadyExists := nameMapping[mapKey]
		if keyAlreadyExists {
			return fmt.Errorf("duplicate field names in a dictionary: %s", mapKey)
		}
		nameMapping[mapKey] = i
	}

	dict, _ := v.AsDict()
	for key, entry := range dict {
		fieldIndex, fieldPresent := nameMapping[key]
		if !fieldPresent {
			continue
		}

		err := bind(entry, entity.Field(fieldIndex))
		if err != nil {
			return fmt.Errorf("failed to bind dictionary value %s: %w", key, err)
		}
	}

	return nil
}

func bindMap(v value.Value, entity reflect.Value) error {
	dict, _ := v.AsDict()

	newMap := reflect.MakeMapWithSize(entity.Type(), len(dict))
	for key, entry := range dict {
		newEntry := reflect.New(entity.Type().Elem()).Elem()
		err := bind(entry, newEntry)
		if err != nil {
			return fmt.Errorf("failed to bind dictionary value %s: %w", key, err)
		}

		newMap.SetMapIndex(reflect.ValueOf(key).Convert(entity.Type().Key()), newEntry)
	}

	entity.Set(newMap)

	return nil
}
