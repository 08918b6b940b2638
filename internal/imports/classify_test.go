package imports

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		id   string
		want Category
	}{
		// types
		{"User", Type},
		{"ComplianceViolation", Type},
		{"ÉtatCivil", Type},
		// service beats type when capitalised
		{"UserService", Service},
		{"ServiceRegistry", Service},
		{"userService", Service},
		{"authservice", Service},
		{"serviceLocator", Service},
		// modal/editor exclude type and fall through to component
		{"UserDetailModal", Component},
		{"PDFReportModal", Component},
		{"InvoiceTemplateEditor", Component},
		{"richEditor", Component},
		{"confirmModal", Component},
		// service wins over component
		{"ServiceModal", Service},
		{"editorService", Service},
		// lowercase "modal"/"editor" are not components
		{"modalHelpers", Unclassified},
		{"useEditor2", Component},
		{"formatDate", Unclassified},
		{"", Unclassified},
		{"_Private", Unclassified},
		{"123Abc", Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Classify(tt.id); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.id, got, tt.want)
			}
		})
	}
}

func TestHasServiceSuffix_CasingSensitive(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"projectService", true},
		{"ProjectService", true},
		{"projectservice", false},
		{"projectSERVICE", false},
		{"projectServices", false},
		{"Service", true},
	}
	for _, tt := range tests {
		if got := HasServiceSuffix(tt.id); got != tt.want {
			t.Errorf("HasServiceSuffix(%q) = %v, want %v", tt.id, got, tt.want)
		}
		if got := Classify(tt.id); got != Service {
			t.Errorf("Classify(%q) = %s, want service", tt.id, got)
		}
	}
}

func TestCategoryString(t *testing.T) {
	if Type.String() != "type" || Unclassified.String() != "unclassified" {
		t.Errorf("unexpected category strings %q %q", Type, Unclassified)
	}
}
