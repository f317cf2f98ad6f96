package artifact

import (
	"encoding/json"
	"testing"
)

func TestMarshal_OmitsAbsentOptionalFields(t *testing.T) {
	data, err := Marshal([]SwiftModuleArtifactInfo{
		{ModuleName: "A", ModulePath: "/build/A.swiftmodule"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw[0]["docPath"]; ok {
		t.Fatalf("expected docPath to be omitted, got %v", raw[0])
	}
	if _, ok := raw[0]["sourceInfoPath"]; ok {
		t.Fatalf("expected sourceInfoPath to be omitted, got %v", raw[0])
	}
}

func TestMarshal_PreservesOrder(t *testing.T) {
	data, err := Marshal([]SwiftModuleArtifactInfo{
		{ModuleName: "Z", ModulePath: "/build/Z.swiftmodule"},
		{ModuleName: "A", ModulePath: "/build/A.swiftmodule"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round []SwiftModuleArtifactInfo
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(round) != 2 || round[0].ModuleName != "Z" || round[1].ModuleName != "A" {
		t.Fatalf("expected order [Z A] preserved, got %v", round)
	}
}

func TestMarshal_EmptyListIsEmptyArrayNotNull(t *testing.T) {
	data, err := Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", data)
	}
}

func TestWriterFunc_AdaptsPlainFunction(t *testing.T) {
	var gotPath string
	var gotData []byte
	var w Writer = WriterFunc(func(path string, data []byte) error {
		gotPath, gotData = path, data
		return nil
	})
	if err := w.Write("/tmp/x.json", []byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if gotPath != "/tmp/x.json" || string(gotData) != "{}" {
		t.Fatalf("unexpected call: %q %q", gotPath, gotData)
	}
}
