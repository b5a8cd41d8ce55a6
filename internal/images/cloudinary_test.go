package images

import "testing"

var cdnHosts = []string{"res.cloudinary.com"}

func TestTransformCloudinaryURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain upload gets full transformation",
			in:   "https://res.cloudinary.com/fti/image/upload/v1712/sig.png",
			want: "https://res.cloudinary.com/fti/image/upload/f_auto,q_auto,w_600,pg_1/v1712/sig.png",
		},
		{
			name: "existing transformation preserved, f_auto prepended",
			in:   "https://res.cloudinary.com/fti/image/upload/w_400,c_fill/v1712/sig.png",
			want: "https://res.cloudinary.com/fti/image/upload/f_auto,w_400,c_fill/v1712/sig.png",
		},
		{
			name: "existing f_auto untouched",
			in:   "https://res.cloudinary.com/fti/image/upload/f_auto,w_400/v1712/sig.png",
			want: "https://res.cloudinary.com/fti/image/upload/f_auto,w_400/v1712/sig.png",
		},
		{
			name: "other hosts pass through",
			in:   "https://example.com/files/upload/sig.png",
			want: "https://example.com/files/upload/sig.png",
		},
		{
			name: "no upload segment passes through",
			in:   "https://res.cloudinary.com/fti/image/fetch/sig.png",
			want: "https://res.cloudinary.com/fti/image/fetch/sig.png",
		},
	}

	for _, c := range cases {
		if got := TransformCloudinaryURL(c.in, cdnHosts); got != c.want {
			t.Errorf("%s:\n got %s\nwant %s", c.name, got, c.want)
		}
	}
}
