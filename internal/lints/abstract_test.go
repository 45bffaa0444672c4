package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAbstractMethod(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "abstractmethod decorator",
			src: `class C:
    @abstractmethod
    def f(self):
        return 1
`,
			want: true,
		},
		{
			name: "abc attribute decorator",
			src: `class C:
    @abc.abstractmethod
    def f(self):
        return 1
`,
			want: true,
		},
		{
			name: "pass only body",
			src: `class C:
    def f(self):
        pass
`,
			want: true,
		},
		{
			name: "docstring only body",
			src: `class C:
    def f(self):
        """Compute the thing."""
`,
			want: true,
		},
		{
			name: "return NotImplemented",
			src: `class C:
    def f(self):
        return NotImplemented
`,
			want: true,
		},
		{
			name: "raises NotImplementedError",
			src: `class C:
    def f(self, x):
        if x:
            raise NotImplementedError
        return x
`,
			want: true,
		},
		{
			name: "docstring hint",
			src: `class C:
    def f(self):
        """Subclasses should implement this."""
        return 0
`,
			want: true,
		},
		{
			name: "concrete method",
			src: `class C:
    def f(self, x):
        return x * 2
`,
			want: false,
		},
		{
			name: "staticmethod decorator is not abstract",
			src: `class C:
    @staticmethod
    def f(x):
        return x
`,
			want: false,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, fn := soleMethod(t, parseSource(t, tc.src))
			assert.Equal(t, tc.want, IsAbstractMethod(fn))
		})
	}
}

func TestIsAbstractClass(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "inherits ABC",
			src: `class Shape(ABC):
    def area(self):
        return 0
`,
			want: true,
		},
		{
			name: "inherits abc.ABCMeta",
			src: `class Shape(metaclass_base, abc.ABCMeta):
    def area(self):
        return 0
`,
			want: true,
		},
		{
			name: "has abstract method",
			src: `class Shape:
    def area(self):
        raise NotImplementedError
`,
			want: true,
		},
		{
			name: "fully concrete",
			src: `class Square:
    def area(self):
        return self.side ** 2
`,
			want: false,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := parseSource(t, tc.src)
			require.Len(t, f.Classes, 1)
			assert.Equal(t, tc.want, IsAbstractClass(f.Classes[0]))
		})
	}
}
