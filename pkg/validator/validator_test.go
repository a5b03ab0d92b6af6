package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"pic.png", "pic.png"},
		{"my photo.jpg", "my photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\doc\pic.png`, "pic.png"},
		{"dir/", "dir"},
		{" pic.png ", " pic.png "},
		{"pic\x00.png", "pic\x00.png"},
		{"scans/ ", " "},
		{"..", ""},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, CleanFileName(c.in), "input %q", c.in)
	}
}
