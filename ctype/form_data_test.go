package ctype

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedTestValue struct{ name string }

func (v namedTestValue) FieldName() string { return v.name }

func TestNewFormDataDefaultsToQuoting(t *testing.T) {
	var fd = NewFormData()
	assert.True(t, fd.QuoteFields)
	assert.Empty(t, fd.Fields)
}

func TestNewFormDataQuotingExplicit(t *testing.T) {
	var fd = NewFormDataQuoting(false)
	assert.False(t, fd.QuoteFields)
}

func TestAddFieldBytesDefaultsFileNameAndMultipart(t *testing.T) {
	var fd = NewFormData()
	fd.AddField("hey", []byte("mister"), nil)
	require.Len(t, fd.Fields, 1)
	assert.True(t, fd.Multipart)
	assert.Equal(t, "hey", fd.Fields[0].Headers.GetOr("file_name", ""))
}

func TestAddFieldNamedValueUsesItsOwnName(t *testing.T) {
	var fd = NewFormData()
	fd.AddField("hey", namedTestValue{name: "koishi"}, nil)
	assert.Equal(t, "koishi", fd.Fields[0].Headers.GetOr("file_name", ""))
}

func TestAddFieldExplicitTransferEncodingSuppressesDefaultFileName(t *testing.T) {
	var fd = NewFormData()
	fd.AddField("hey", []byte("mister"), &FieldOptions{TransferEncoding: "application/octet-stream"})
	_, ok := fd.Fields[0].Headers.Get("file_name")
	assert.False(t, ok)
	assert.Equal(t, "application/octet-stream", fd.Fields[0].ContentHeaders.GetOr("Content-Transfer-Encoding", ""))
	assert.True(t, fd.Multipart)
}

func TestAddFieldPlainStringStaysFormUrlencoded(t *testing.T) {
	var fd = NewFormData()
	fd.AddField("hey", "mister", nil)
	assert.False(t, fd.Multipart)
}

func TestAddFieldAllOptionsExplicit(t *testing.T) {
	var fd = NewFormData()
	fd.AddField("hey", []byte("mister"), &FieldOptions{
		ContentType:      "text/plain",
		FileName:         "satori",
		TransferEncoding: "application/octet-stream",
	})
	assert.Equal(t, "satori", fd.Fields[0].Headers.GetOr("file_name", ""))
	assert.Equal(t, "text/plain", fd.Fields[0].ContentHeaders.GetOr("Content-Type", ""))
}

func TestFormDataEqualEmpty(t *testing.T) {
	assert.True(t, NewFormData().Equal(NewFormData()))
}

func TestFormDataEqualFilled(t *testing.T) {
	var a = NewFormData()
	a.AddField("hey", []byte("mister"), nil)
	var b = NewFormData()
	b.AddField("hey", []byte("mister"), nil)
	assert.True(t, a.Equal(b))
}

func TestFormDataNotEqualDifferentValue(t *testing.T) {
	var a = NewFormData()
	a.AddField("hey", []byte("mister"), nil)
	var b = NewFormData()
	b.AddField("hey", "mister", nil)
	assert.False(t, a.Equal(b))
}

func TestFormDataString(t *testing.T) {
	var fd = NewFormData()
	fd.AddField("hey", []byte("mister"), nil)
	var out = fd.String()
	assert.True(t, strings.Contains(out, "fields ="))
	assert.True(t, strings.Contains(out, "multipart ="))
	assert.True(t, strings.Contains(out, "quote_fields ="))
}
