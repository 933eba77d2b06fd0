package embedded

import (
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/particlestorm.yaml":         {Data: []byte("backend: ebiten\n")},
		"data/particlestorm.example.toml": {Data: []byte("backend = \"terminal\"\n")},
	}
}

// reset 重置包状态以避免影响其他测试
func reset() {
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	reset()
	defer reset()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestNotInitialized 测试未初始化时的各个入口
func TestNotInitialized(t *testing.T) {
	reset()

	const want = "embedded package not initialized, call Init() first"

	if _, err := Open("data/particlestorm.yaml"); err == nil || err.Error() != want {
		t.Errorf("Open: unexpected error %v", err)
	}
	if _, err := ReadFile("data/particlestorm.yaml"); err == nil || err.Error() != want {
		t.Errorf("ReadFile: unexpected error %v", err)
	}
	if _, err := ReadDir("data"); err == nil || err.Error() != want {
		t.Errorf("ReadDir: unexpected error %v", err)
	}
	// Exists 在未初始化时应返回 false
	if Exists("data/particlestorm.yaml") {
		t.Error("Expected Exists() to return false before Init()")
	}
}

func TestReadFile(t *testing.T) {
	reset()
	defer reset()
	Init(testFS())

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "plain", path: "data/particlestorm.yaml", want: "backend: ebiten\n"},
		{name: "dot prefix", path: "./data/particlestorm.yaml", want: "backend: ebiten\n"},
		{name: "missing file", path: "data/missing.yaml", wantErr: true},
		{name: "wrong prefix", path: "assets/font.ttf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExistsAndReadDir(t *testing.T) {
	reset()
	defer reset()
	Init(testFS())

	if !Exists("data/particlestorm.example.toml") {
		t.Error("Expected example toml to exist")
	}
	if Exists("data/nope.toml") {
		t.Error("Expected missing file to not exist")
	}

	for _, dir := range []string{"data", "data/", "./data"} {
		entries, err := ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir(%q): %v", dir, err)
		}
		if len(entries) != 2 {
			t.Errorf("ReadDir(%q): got %d entries, want 2", dir, len(entries))
		}
	}
}
