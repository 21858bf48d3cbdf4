package schema

import "testing"

func TestClassify(t *testing.T) {
	cases := map[string]DocType{
		// atoms: anything in the "a-" hierarchy is a located object
		"a-f-G-U-C":     DocTypeMapItem,
		"a-h-A-M-F-U-M": DocTypeMapItem,
		"a-u-G":         DocTypeMapItem,

		// GeoChat
		"b-t-f":             DocTypeChat,
		"b-t-f-a":           DocTypeChat,
		"GeoChat.b-t-f.all": DocTypeChat,

		// file shares
		"b-f-t-f": DocTypeFile,
		"b-f-t-f-a": DocTypeFile,

		// emergency / api alerts
		"b-a-o-tbl": DocTypeAPI,
		"b-a-o-can": DocTypeAPI,

		// everything else
		"b-m-p-s-m": DocTypeGeneric,
		"t-x-c-t":   DocTypeGeneric,
		"":          DocTypeGeneric,
	}

	for cotType, want := range cases {
		if got := Classify(cotType); got != want {
			t.Errorf("Classify(%q) = %q, want %q", cotType, got, want)
		}
	}
}

func TestDocTypeCollection(t *testing.T) {
	if got := DocTypeMapItem.Collection(); got != "map_item" {
		t.Errorf("expected collection 'map_item', got %q", got)
	}
	if got := DocTypeChat.String(); got != "chat" {
		t.Errorf("expected 'chat', got %q", got)
	}
}
