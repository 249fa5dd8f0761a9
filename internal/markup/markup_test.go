package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "plain text",
			in:   "Nothing here.",
			want: []Segment{{Text: "Nothing here."}},
		},
		{
			name: "link with label as text",
			in:   "You see a [door].",
			want: []Segment{{Text: "You see a "}, {Text: "door", Action: "door"}, {Text: "."}},
		},
		{
			name: "link with display text",
			in:   "[open door (the old door)] creaks",
			want: []Segment{{Text: "the old door", Action: "open door"}, {Text: " creaks"}},
		},
		{
			name: "link without space before display text",
			in:   "[hall(Go back)]",
			want: []Segment{{Text: "Go back", Action: "hall"}},
		},
		{
			name: "interpolation is not a link",
			in:   "Gold: [:gold:]",
			want: []Segment{{Text: "Gold: [:gold:]"}},
		},
		{
			name: "two links",
			in:   "[a] and [b]",
			want: []Segment{{Text: "a", Action: "a"}, {Text: " and "}, {Text: "b", Action: "b"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.in))
		})
	}
}

func TestActions(t *testing.T) {
	assert.Equal(t, []string{"open door", "hall"}, Actions("[open door (old door)] or [hall(back)]"))
	assert.Nil(t, Actions("no links, [:x:] only"))
}

func TestInterpolate(t *testing.T) {
	vars := map[string]int64{"gold": 12, "_x1": -3}
	lookup := func(name string) int64 { return vars[name] }

	assert.Equal(t, "You have 12 gold and -3 x.", Interpolate("You have [:gold:] gold and [:_x1:] x.", lookup))
	assert.Equal(t, "Unset 0", Interpolate("Unset [:none:]", lookup))
	assert.Equal(t, "[: bad :]", Interpolate("[: bad :]", lookup))
}

func TestSplitDirection(t *testing.T) {
	dir, rest := SplitDirection("(whispers)  Over here.")
	assert.Equal(t, "whispers", dir)
	assert.Equal(t, "Over here.", rest)

	dir, rest = SplitDirection("No direction (here).")
	assert.Equal(t, "", dir)
	assert.Equal(t, "No direction (here).", rest)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "You see a door.", Plain(Parse("You see a [door].")))
}
