package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sac &amp; Pochette", "Sac & Pochette"},
		{"<strong>Montre</strong>  Casio\n", "Montre Casio"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Pagne", "alert(1)Pagne"},
		{"Robe &#8211; Wax", "Robe – Wax"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Fatalf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
