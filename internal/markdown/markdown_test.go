package markdown

import "testing"

func TestRender(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// strong
		{"**strong**", "<strong>strong</strong>"},
		{"**strong word**", "<strong>strong word</strong>"},
		{" **strong**", " <strong>strong</strong>"},
		{"** strong**", "<strong> strong</strong>"},
		{"** strong **", "<strong> strong </strong>"},
		{"**strong** ", "<strong>strong</strong> "},
		{" **strong** ", " <strong>strong</strong> "},
		{"** **", "<strong> </strong>"},

		{"__strong__", "<strong>strong</strong>"},
		{" __strong__", " <strong>strong</strong>"},
		{"__ strong__", "<strong> strong</strong>"},
		{"__ strong __", "<strong> strong </strong>"},
		{"__strong__ ", "<strong>strong</strong> "},
		{" __strong__ ", " <strong>strong</strong> "},
		{"(__strong__)", "(<strong>strong</strong>)"},
		{"__ __", "<strong> </strong>"},

		// emphasis
		{"*emphasis*", "<em>emphasis</em>"},
		{"*emphasized word*", "<em>emphasized word</em>"},
		{" *emphasis*", " <em>emphasis</em>"},
		{"* emphasis*", "<em> emphasis</em>"},
		{"*emphasis* ", "<em>emphasis</em> "},
		{" *emphasis* ", " <em>emphasis</em> "},

		{"_emphasis_", "<em>emphasis</em>"},
		{" _emphasis_", " <em>emphasis</em>"},
		{"_ emphasis_", "<em> emphasis</em>"},
		{"_ emphasis _", "<em> emphasis </em>"},
		{"_emphasis_ ", "<em>emphasis</em> "},
		{" _emphasis_ ", " <em>emphasis</em> "},
		{"(_emphasis_)", "(<em>emphasis</em>)"},

		// underscores inside words stay literal
		{"no_emphasis_", "no_emphasis_"},

		// combined
		{"they can _also be **combined**_", "they can <em>also be <strong>combined</strong></em>"},
		{"_a_ _b_", "<em>a</em> <em>b</em>"},

		// superscript
		{"super^this", "super<sup>this</sup>"},
		{"super^this not^", "super<sup>this</sup> not^"},
		{"super^this^not_this", "super<sup>this^not_this</sup>"},
		{"^this", "<sup>this</sup>"},
		{"not^", "not^"},

		// inserted and deleted
		{"++inserted++", "<ins>inserted</ins>"},
		{"~~deleted~~", "<del>deleted</del>"},

		// line breaks
		{"  ", "<br />"},
		{"    ", "<br /><br />"},
		{"one  break", "one<br />break"},
		{"two   breaks", "two<br /><br />breaks"},
		{"two    breaks", "two<br /><br />breaks"},
		{"three      breaks", "three<br /><br /><br />breaks"},

		// escaping
		{`\*emphasis*`, "*emphasis*"},
		{`\**strong**`, "*<em>strong</em>*"},
		{`\*\*strong**`, "**strong**"},
		{`\__strong__`, "_<em>strong</em>_"},
		{`\_\_strong__`, "__strong__"},
	}

	for _, tc := range cases {
		if got := Render(tc.in); got != tc.want {
			t.Errorf("Render(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
