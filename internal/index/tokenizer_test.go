// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases", "Microgravity Effects", []string{"microgravity", "effects"}},
		{"splits punctuation", "bone-loss, muscle; atrophy", []string{"bone", "loss", "muscle", "atrophy"}},
		{"keeps digits", "ISS 2018 Veggie", []string{"iss", "2018", "veggie"}},
		{"empty", "", nil},
		{"whitespace only", "   \t\n", nil},
		{"unicode letters", "Müller café", []string{"müller", "café"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
