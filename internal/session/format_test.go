package session

import "testing"

func TestReindent_Python(t *testing.T) {
	in := "def greet(name):\nprint(name)\nif True:\nprint('yes')\nprint('done')"
	want := "def greet(name):\n    print(name)\n    if True:\n        print('yes')\n        print('done')"

	got := Reindent(in, "python3")
	if got != want {
		t.Errorf("Reindent() =\n%s\nwant\n%s", got, want)
	}
}

func TestReindent_BraceLanguage(t *testing.T) {
	in := "int main() {\ncout << 1;\n}"
	want := "int main() {\n  cout << 1;\n}"

	got := Reindent(in, "cpp17")
	if got != want {
		t.Errorf("Reindent() =\n%s\nwant\n%s", got, want)
	}
}

func TestReindent_NestedBraces(t *testing.T) {
	in := "public class Main {\npublic static void main(String[] args) {\nSystem.out.println(1);\n}\n}"
	want := "public class Main {\n  public static void main(String[] args) {\n    System.out.println(1);\n  }\n}"

	got := Reindent(in, "java")
	if got != want {
		t.Errorf("Reindent() =\n%s\nwant\n%s", got, want)
	}
}

func TestReindent_PreservesBlankLinesAndEmptyInput(t *testing.T) {
	if got := Reindent("", "python3"); got != "" {
		t.Errorf("empty input should pass through, got %q", got)
	}
	if got := Reindent("   \n  ", "python3"); got != "   \n  " {
		t.Errorf("whitespace-only input should pass through, got %q", got)
	}

	in := "a = 1\n\nb = 2"
	if got := Reindent(in, "python3"); got != in {
		t.Errorf("blank lines should be preserved, got %q", got)
	}
}

func TestReindent_UnbalancedClosersDoNotGoNegative(t *testing.T) {
	in := "}\n}\ncode"
	want := "}\n}\ncode"

	// Depth is clamped at zero; stray closers can't produce negative indent.
	if got := Reindent(in, "cpp17"); got != want {
		t.Errorf("Reindent() = %q, want %q", got, want)
	}
}
