package decl

import (
	"reflect"
	"strings"
	"testing"
)

func lines(s string) []string { return strings.Split(s, "\n") }

func TestFieldComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		class string
		want  Comments
	}{
		{
			name:  "doc comment spanning lines",
			class: "User",
			src: `public class User {
    /**
     * user name
     */
    private String name;
}`,
			want: Comments{"name": "user name"},
		},
		{
			name:  "single line doc and block comments",
			class: "User",
			src: `public class User {
    /** primary id */
    private Long id;
    /*** stars everywhere ***/
    private String code;
    /**/
    private String empty;
}`,
			want: Comments{"id": "primary id", "code": "stars everywhere", "empty": ""},
		},
		{
			name:  "line comment and trailing comment",
			class: "User",
			src: `public class User {
    // age in years
    private Integer age;
    private String email; // contact address
    private String phone;
}`,
			want: Comments{"age": "age in years", "email": "contact address", "phone": ""},
		},
		{
			name:  "pending comment wins over trailing comment",
			class: "User",
			src: `class User {
    // leading
    private String nick; // trailing
}`,
			want: Comments{"nick": "leading"},
		},
		{
			name:  "trailing comment stops at a second marker",
			class: "User",
			src: `class User {
    private String url; // see http://example // ignored
}`,
			want: Comments{"url": "see http:"},
		},
		{
			name:  "nothing before the class line is attributed",
			class: "User",
			src: `// header comment
private String before;
/** doc */
public class User {
    private String after;
}`,
			want: Comments{"after": ""},
		},
		{
			name:  "scan stops at the first method",
			class: "User",
			src: `public class User {
    private String a;
    public String getA() {
        return a;
    }
    // later
    private String b;
}`,
			want: Comments{"a": ""},
		},
		{
			name:  "class never found yields empty mapping",
			class: "Missing",
			src: `public class User {
    private String a;
}`,
			want: Comments{},
		},
		{
			name:  "field name is the last token with extra spaces",
			class: "User",
			src:   "class User {\n\tprivate   final  String   title ;\n}",
			want:  Comments{"title": ""},
		},
		{
			name:  "tabs separate tokens too",
			class: "User",
			src:   "class User {\n\tprivate\tString\tname;\t// display name\n}",
			want:  Comments{"name": "display name"},
		},
		{
			name:  "blank line inside doc comment keeps waiting",
			class: "User",
			src: `class User {
    /**
     *
     * the text
     */
    private String x;
}`,
			want: Comments{"x": "the text"},
		},
		{
			name:  "annotations between comment and field do not clear it",
			class: "User",
			src: `class User {
    /** kept */
    @Column(name = "k")
    private String k;
}`,
			want: Comments{"k": "kept"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FieldComments(lines(tt.src), tt.class)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FieldComments() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestComments_Lookup(t *testing.T) {
	t.Parallel()

	c := FieldComments(lines("class A {\n  private int x;\n  // y doc\n  private int y;\n}"), "A")
	if s, ok := c.Lookup("x"); !ok || s != "" {
		t.Fatalf("Lookup(x) = (%q, %v), want (\"\", true)", s, ok)
	}
	if s, ok := c.Lookup("y"); !ok || s != "y doc" {
		t.Fatalf("Lookup(y) = (%q, %v), want (\"y doc\", true)", s, ok)
	}
	if _, ok := c.Lookup("z"); ok {
		t.Fatalf("Lookup(z) found, want absent")
	}
}

func TestFieldComments_NilLines(t *testing.T) {
	t.Parallel()

	if got := FieldComments(nil, "A"); len(got) != 0 {
		t.Fatalf("FieldComments(nil) = %v, want empty", got)
	}
}

func TestTableComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		marker string
		want   string
		wantOK bool
	}{
		{"marker appended", "/**\n * User account\n */\nclass User {}", "表", "User account表", true},
		{"marker already present", "/**\n * 用户表\n */", "表", "用户表", true},
		{"custom marker", "/**\n * Order\n */", " table", "Order table", true},
		{"no marker", "/**\n * Order\n */", "", "Order", true},
		{"no doc comment", "class User {\n  private int a;\n}", "表", "", false},
		{"first star line wins", "/*\n * License header\n */\n/**\n * Real\n */", "", "License header", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := TableComment(lines(tt.src), tt.marker)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("TableComment() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
