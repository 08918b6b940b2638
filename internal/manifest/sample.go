package manifest

// Sample returns the manifest that splits the admin dashboard page into one
// file per tab.
func Sample() *Manifest {
	return &Manifest{
		Source:    "frontend/src/pages/AdminDashboard.tsx",
		OutputDir: "frontend/src/components/admin",
		Extension: DefaultExtension,
		Units: []Unit{
			{Name: "UsersTab", StartLine: 359, EndLine: 728,
				Identifiers: []string{"User", "userService", "UserDetailModal", "PDFReportModal"}},
			{Name: "LocationsTab", StartLine: 729, EndLine: 895,
				Identifiers: []string{"Location", "locationService"}},
			{Name: "CustomersTab", StartLine: 897, EndLine: 1224,
				Identifiers: []string{"Customer", "customerService"}},
			{Name: "SuppliersTab", StartLine: 1226, EndLine: 1545,
				Identifiers: []string{"Supplier", "supplierService"}},
			{Name: "ProjectsTab", StartLine: 1547, EndLine: 1810,
				Identifiers: []string{"Project", "projectService", "User", "userService"}},
			{Name: "AbsencesTab", StartLine: 1812, EndLine: 1915,
				Identifiers: []string{"AbsenceRequest", "absenceService"}},
			{Name: "TimeEntriesTab", StartLine: 1917, EndLine: 2169,
				Identifiers: []string{"TimeEntry", "timeService", "Project", "User"}},
			{Name: "ReportsTab", StartLine: 2171, EndLine: 2404,
				Identifiers: []string{"Report"}},
			{Name: "BackupTab", StartLine: 2406, EndLine: 2649,
				Identifiers: []string{"backupService", "Backup"}},
			{Name: "HolidaysTab", StartLine: 2651, EndLine: 2957,
				Identifiers: []string{}},
			{Name: "ComplianceTab", StartLine: 2959, EndLine: 3155,
				Identifiers: []string{"ComplianceViolation", "ComplianceStats"}},
			{Name: "ArticleGroupsTab", StartLine: 3157, EndLine: 3372,
				Identifiers: []string{"ArticleGroup", "articleGroupService"}},
			{Name: "ArticlesTab", StartLine: 3374, EndLine: 3698,
				Identifiers: []string{"Article", "ArticleGroup", "articleService"}},
			{Name: "InvoiceTemplatesTab", StartLine: 3700, EndLine: 3883,
				Identifiers: []string{"InvoiceTemplateEditor"}},
			{Name: "InvoicesTab", StartLine: 3885, EndLine: 4520,
				Identifiers: []string{"Invoice", "Customer", "Article", "invoiceService"}},
		},
	}
}
