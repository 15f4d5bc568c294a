package ctype

import (
	"fmt"
	"reflect"
)

// NamedValue is implemented by field values (typically open files) that
// know their own file name, the way the grammar this is grounded on
// reads a ".name" attribute off whatever object was handed to
// add_field.
type NamedValue interface {
	FieldName() string
}

// FieldOptions carries add_field's optional keyword arguments.
type FieldOptions struct {
	FileName         string
	ContentType      string
	TransferEncoding string
}

// FormField is one field of a FormData: a "name"/"file_name" header
// multimap, a separate Content-Type/Content-Transfer-Encoding header
// multimap, and the raw value.
type FormField struct {
	Headers        *MultiValueMap
	ContentHeaders *MultiValueMap
	Value          any
}

// FormData accumulates fields for a multipart/form-urlencoded request
// body. Building the actual wire bytes is out of scope here, the same
// way the grammar this is grounded on leaves its own payload-writing
// paths untested pending a testable streaming-write abstraction;
// FormData only tracks field bookkeeping and multipart/urlencoded
// selection.
type FormData struct {
	Fields      []FormField
	Multipart   bool
	QuoteFields bool
}

// NewFormData returns an empty FormData that quotes field values.
func NewFormData() *FormData {
	return &FormData{QuoteFields: true}
}

// NewFormDataQuoting returns an empty FormData with explicit control
// over whether field values are quoted.
func NewFormDataQuoting(quoteFields bool) *FormData {
	return &FormData{QuoteFields: quoteFields}
}

// AddField appends one field. A []byte value or a NamedValue value is
// treated as file-like: if opts supplies no FileName, ContentType or
// TransferEncoding, the field defaults to multipart with FileName
// defaulting to the value's own name (for a NamedValue) or to name
// itself. Any field that ends up with a FileName, ContentType or
// TransferEncoding switches the whole FormData to multipart.
func (fd *FormData) AddField(name string, value any, opts *FieldOptions) {
	if opts == nil {
		opts = &FieldOptions{}
	}
	var headers = NewMultiValueMap()
	headers.Set("name", name)

	var namedValue, isNamed = value.(NamedValue)
	var _, isBytes = value.([]byte)
	var isFileLike = isNamed || isBytes

	var fileName = opts.FileName
	if fileName == "" && isFileLike && opts.ContentType == "" && opts.TransferEncoding == "" {
		if isNamed {
			fileName = namedValue.FieldName()
		} else {
			fileName = name
		}
	}
	if fileName != "" {
		headers.Set("file_name", fileName)
	}

	var contentHeaders = NewMultiValueMap()
	if opts.ContentType != "" {
		contentHeaders.Set("Content-Type", opts.ContentType)
	}
	if opts.TransferEncoding != "" {
		contentHeaders.Set("Content-Transfer-Encoding", opts.TransferEncoding)
	}

	fd.Fields = append(fd.Fields, FormField{Headers: headers, ContentHeaders: contentHeaders, Value: value})
	if isFileLike || fileName != "" || opts.ContentType != "" || opts.TransferEncoding != "" {
		fd.Multipart = true
	}
}

// Equal reports whether fd and other carry the same fields, in the
// same order, under the same multipart/quote_fields settings.
func (fd *FormData) Equal(other *FormData) bool {
	if fd == nil || other == nil {
		return fd == other
	}
	if fd.Multipart != other.Multipart || fd.QuoteFields != other.QuoteFields {
		return false
	}
	if len(fd.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range fd.Fields {
		var o = other.Fields[i]
		if !f.Headers.Equal(o.Headers) || !f.ContentHeaders.Equal(o.ContentHeaders) {
			return false
		}
		if !reflect.DeepEqual(f.Value, o.Value) {
			return false
		}
	}
	return true
}

func (fd *FormData) String() string {
	return fmt.Sprintf("<FormData fields = %d, multipart = %t, quote_fields = %t>",
		len(fd.Fields), fd.Multipart, fd.QuoteFields)
}
