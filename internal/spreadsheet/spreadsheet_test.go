package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessDate(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  *string
	}{
		{name: "serial number", input: float64(38718), want: strPtr("2006-01-01")},
		{name: "serial int", input: 45292, want: strPtr("2024-01-01")},
		{name: "serial text", input: "38718", want: strPtr("2006-01-01")},
		{name: "serial with time fraction", input: 38718.75, want: strPtr("2006-01-01")},
		{name: "day month year", input: "09/03/2024", want: strPtr("2024-03-09")},
		{name: "single digit parts", input: "1/2/1990", want: strPtr("1990-02-01")},
		{name: "iso passthrough", input: "2001-12-31", want: strPtr("2001-12-31")},
		{name: "impossible day", input: "31/02/2020", want: nil},
		{name: "garbage", input: "hôm qua", want: nil},
		{name: "empty", input: "  ", want: nil},
		{name: "nil", input: nil, want: nil},
		{name: "zero serial", input: 0, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProcessDate(tc.input)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestWriteThenRead(t *testing.T) {
	data, err := Write(Sheet{
		Name:    "Nhân sự",
		Headers: []string{"Họ và tên", "Ngày sinh", "Ghi chú"},
		Widths:  []float64{25, 15, 30},
		Rows: [][]any{
			{"Nguyễn Văn A", 38718, nil},
			{nil, nil, nil},
			{"Trần Thị B", "09/03/1990", "trực đêm"},
		},
	})
	require.NoError(t, err)

	rows, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Nguyễn Văn A", rows[0].Get("Họ và tên"))
	assert.Equal(t, "2006-01-01", *ProcessDate(rows[0].Get("Ngày sinh")))
	assert.Equal(t, "", rows[0].Get("Ghi chú"))
	assert.Equal(t, "trực đêm", rows[1].Get("Missing", "Ghi chú"))
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)
}

func strPtr(value string) *string {
	return &value
}
