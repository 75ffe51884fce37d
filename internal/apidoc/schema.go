package apidoc

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/spec"
	"github.com/shopspring/decimal"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	rawType     = reflect.TypeOf(json.RawMessage{})
)

type builder struct {
	defs spec.Definitions
}

// schema отражает Go-тип в схему по json-тегам; именованные структуры уходят в definitions.
func (b *builder) schema(t reflect.Type) *spec.Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return spec.DateTimeProperty()
	case decimalType:
		return spec.StrFmtProperty("decimal")
	case rawType:
		return new(spec.Schema).Typed("object", "")
	}

	switch t.Kind() {
	case reflect.String:
		return spec.StringProperty()
	case reflect.Bool:
		return spec.BoolProperty()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return spec.Int32Property()
	case reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return spec.Int64Property()
	case reflect.Float32, reflect.Float64:
		return spec.Float64Property()
	case reflect.Slice, reflect.Array:
		return spec.ArrayProperty(b.schema(t.Elem()))
	case reflect.Map:
		return spec.MapProperty(b.schema(t.Elem()))
	case reflect.Struct:
		name := definitionName(t)
		if name == "" {
			return b.object(t)
		}
		if _, ok := b.defs[name]; !ok {
			// заглушка против бесконечной рекурсии на самоссылающихся типах
			b.defs[name] = spec.Schema{}
			b.defs[name] = *b.object(t)
		}
		return spec.RefSchema("#/definitions/" + name)
	}
	return &spec.Schema{}
}

func (b *builder) object(t reflect.Type) *spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	b.fields(s, t)
	return s
}

func (b *builder) fields(s *spec.Schema, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			b.fields(s, f.Type)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, omitempty, ok := jsonName(f)
		if !ok {
			continue
		}
		prop := b.schema(f.Type)
		if ex := f.Tag.Get("example"); ex != "" {
			prop = withExample(prop, ex)
		}
		s.SetProperty(name, *prop)
		if strings.Contains(f.Tag.Get("validate"), "required") && !omitempty {
			s.Required = append(s.Required, name)
		}
	}
}

// formParams: поля multipart-формы по тегам form.
func (b *builder) formParams(op *spec.Operation, t reflect.Type) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		typ := "string"
		switch f.Type.Kind() {
		case reflect.Int, reflect.Int32, reflect.Int64:
			typ = "integer"
		case reflect.Bool:
			typ = "boolean"
		}
		p := spec.FormDataParam(name).Typed(typ, "")
		if strings.Contains(f.Tag.Get("validate"), "required") {
			p.AsRequired()
		}
		op.AddParam(p)
	}
	op.AddParam(spec.FileParam("resume").WithDescription("PDF, DOC или DOCX"))
}

func jsonName(f reflect.StructField) (name string, omitempty, ok bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, strings.Contains(opts, "omitempty"), true
}

// definitionName: models.BlogPost → BlogPost, services.SubscribeResult → services.SubscribeResult.
func definitionName(t reflect.Type) string {
	if t.Name() == "" {
		return ""
	}
	pkg := t.PkgPath()
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		pkg = pkg[i+1:]
	}
	if pkg == "models" || pkg == "apidoc" {
		return t.Name()
	}
	return pkg + "." + t.Name()
}

func withExample(s *spec.Schema, ex string) *spec.Schema {
	if s.Ref.String() != "" {
		return s
	}
	cp := *s
	cp.Example = ex
	return &cp
}
