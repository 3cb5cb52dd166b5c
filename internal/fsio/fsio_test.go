package fsio

import (
	"reflect"
	"testing"
)

// --- Mem basics ---

func TestMem_WriteFileRequiresParent(t *testing.T) {
	m := NewMem()
	if err := m.WriteFile("/a/b/file.md", []byte("x"), 0o644); err == nil {
		t.Fatal("WriteFile into missing directory should fail")
	}

	if err := m.MkdirAll("/a/b", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := m.WriteFile("/a/b/file.md", []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile after MkdirAll: %v", err)
	}

	data, err := m.ReadFile("/a/b/file.md")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "x" {
		t.Errorf("ReadFile = %q, want %q", data, "x")
	}
}

func TestMem_StatDistinguishesFilesAndDirs(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/proj/docs", 0o755)
	m.WriteFile("/proj/docs/a.md", []byte("hello"), 0o644)

	info, err := m.Stat("/proj/docs")
	if err != nil {
		t.Fatalf("Stat dir: %v", err)
	}
	if !info.IsDir() {
		t.Error("Stat(/proj/docs).IsDir() = false, want true")
	}

	info, err = m.Stat("/proj/docs/a.md")
	if err != nil {
		t.Fatalf("Stat file: %v", err)
	}
	if info.IsDir() {
		t.Error("Stat(a.md).IsDir() = true, want false")
	}
	if info.Size() != 5 {
		t.Errorf("Size = %d, want 5", info.Size())
	}

	if _, err := m.Stat("/proj/missing"); err == nil {
		t.Error("Stat on missing path should fail")
	}
}

func TestMem_ReadDirListsDirectChildren(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/proj/sub/deep", 0o755)
	m.WriteFile("/proj/a.md", nil, 0o644)
	m.WriteFile("/proj/sub/b.md", nil, 0o644)

	entries, err := m.ReadDir("/proj")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"a.md", "sub"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ReadDir names = %v, want %v", names, want)
	}
}

func TestMem_RemoveAllRemovesSubtree(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/proj/sub", 0o755)
	m.WriteFile("/proj/sub/a.md", nil, 0o644)
	m.WriteFile("/proj/keep.md", nil, 0o644)

	if err := m.RemoveAll("/proj/sub"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if Exists(m, "/proj/sub/a.md") || Exists(m, "/proj/sub") {
		t.Error("subtree still present after RemoveAll")
	}
	if !Exists(m, "/proj/keep.md") {
		t.Error("sibling file removed")
	}
}

func TestMem_MutationsCounter(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/a", 0o755)
	m.WriteFile("/a/f.md", nil, 0o644)
	m.RemoveAll("/a")
	if m.Mutations != 3 {
		t.Errorf("Mutations = %d, want 3", m.Mutations)
	}
}

// --- CopyTree ---

func TestCopyTree_CopiesNestedFiles(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/src/inner", 0o755)
	m.WriteFile("/src/top.md", []byte("top"), 0o644)
	m.WriteFile("/src/inner/nested.md", []byte("nested"), 0o644)
	m.MkdirAll("/dst-parent", 0o755)

	if err := CopyTree(m, "/src", "/dst-parent/dst"); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	for path, want := range map[string]string{
		"/dst-parent/dst/top.md":          "top",
		"/dst-parent/dst/inner/nested.md": "nested",
	} {
		data, err := m.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", path, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", path, data, want)
		}
	}
}

func TestCopyTree_MissingSourceFails(t *testing.T) {
	m := NewMem()
	if err := CopyTree(m, "/nope", "/dst"); err == nil {
		t.Fatal("CopyTree of missing source should fail")
	}
}

// --- MarkdownFiles ---

func TestMarkdownFiles(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/goals/sub", 0o755)
	m.WriteFile("/goals/b.md", nil, 0o644)
	m.WriteFile("/goals/a.MD", nil, 0o644)
	m.WriteFile("/goals/notes.txt", nil, 0o644)

	got, err := MarkdownFiles(m, "/goals")
	if err != nil {
		t.Fatalf("MarkdownFiles: %v", err)
	}
	want := []string{"a.MD", "b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MarkdownFiles = %v, want %v", got, want)
	}
}

func TestMarkdownFiles_MissingDirIsEmpty(t *testing.T) {
	m := NewMem()
	got, err := MarkdownFiles(m, "/missing")
	if err != nil {
		t.Fatalf("MarkdownFiles on missing dir: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("MarkdownFiles = %v, want empty", got)
	}
}

// --- ListTree ---

func TestListTree(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/p/x", 0o755)
	m.WriteFile("/p/x/b.md", nil, 0o644)
	m.WriteFile("/p/a.md", nil, 0o644)

	got, err := ListTree(m, "/p")
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	want := []string{"a.md", "x/b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListTree = %v, want %v", got, want)
	}
}
