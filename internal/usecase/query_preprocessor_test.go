package usecase

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessQuery(t *testing.T) {
	p := NewQueryPreprocessor(nil)

	testCases := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "drops bracketed tags and shipping terms",
			title: "Wireless Earbuds [NEW] Bluetooth 5.3 | Free Shipping",
			want:  "wireless earbuds bluetooth 5.3",
		},
		{
			name:  "removes trailing pack count",
			title: "Yoga Mat, Non-Slip - 2 Pack",
			want:  "yoga mat, non-slip",
		},
		{
			name:  "removes leading pack of and parenthesized version",
			title: "Pack of 6 Silicone Phone Cases (2024 Version)",
			want:  "silicone phone cases",
		},
		{
			name:  "removes pieces count",
			title: "LED Strip Lights 10 pcs",
			want:  "led strip lights",
		},
		{
			name:  "splits separators",
			title: "Phone Holder / Car Mount • Magnetic",
			want:  "phone holder car mount magnetic",
		},
		{
			name:  "removes french marketing terms",
			title: "Montre Connectée Homme - Livraison Gratuite",
			want:  "montre connectée homme",
		},
		{
			name:  "falls back to lower-cased title when everything is noise",
			title: "NEW  HOT SALE",
			want:  "new hot sale",
		},
		{
			name:  "empty title",
			title: "   ",
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.PreprocessQuery(tc.title))
		})
	}
}

func TestPreprocessQuery_LengthLimit(t *testing.T) {
	p := NewQueryPreprocessor(nil)

	got := p.PreprocessQuery("Stainless Steel Insulated Water Bottle with Straw Lid for Sports Gym Travel Camping Hiking Outdoor")

	assert.LessOrEqual(t, len(got), maxQueryLength)
	assert.Equal(t, "stainless steel insulated water bottle straw lid sports gym travel camping", got)
}

func TestPreprocessQuery_LengthLimitKeepsRunesWhole(t *testing.T) {
	p := NewQueryPreprocessor(nil)

	got := p.PreprocessQuery("a" + strings.Repeat("é", 45))

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxQueryLength)
	assert.Equal(t, "a"+strings.Repeat("é", 39), got)
}

func TestPreprocessQuery_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewQueryPreprocessor(logger)

	p.PreprocessQuery("Hot Sale Desk Lamp")

	assert.Contains(t, buf.String(), "preprocessed query")
	assert.Contains(t, buf.String(), `output="desk lamp"`)
}

func TestCleanOrphanedPunctuation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"desk lamp , white", "desk lamp white"},
		{"desk lamp -", "desk lamp "},
		{": desk lamp", " desk lamp"},
		{"desk lamp", "desk lamp"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanOrphanedPunctuation(tt.in))
		})
	}
}
