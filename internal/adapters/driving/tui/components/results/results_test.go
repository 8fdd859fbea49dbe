package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/capsql/internal/core/domain"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Value
		want string
	}{
		{"null", nil, "NULL"},
		{"text", "hi", "hi"},
		{"integer", int64(3), "3"},
		{"real", 2.5, "2.5"},
		{"blob", []byte{0x01, 0xab}, "x'01AB'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.in))
		})
	}
}

func TestRender(t *testing.T) {
	first := domain.NewRow(2)
	first.Set("id", int64(1))
	first.Set("name", "ada")
	second := domain.NewRow(2)
	second.Set("id", int64(2))
	second.Set("name", nil)

	out := Render([]domain.Row{first, second}, 0, nil)

	assert.Contains(t, out, "id")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, NullText)
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, Render(nil, 80, nil))
}

func TestCellStyle(t *testing.T) {
	s := styles.DefaultStyles()

	assert.Equal(t, s.TableNull, cellStyle(nil, s))
	assert.Equal(t, s.TableNumber, cellStyle(int64(1), s))
	assert.Equal(t, s.TableNumber, cellStyle(1.5, s))
	assert.Equal(t, s.TableBlob, cellStyle([]byte{1}, s))
	assert.Equal(t, s.TableCell, cellStyle("x", s))
}
