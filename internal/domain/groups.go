package domain

// Group categories shown on the registration form.
const (
	CategoryDev = "DEV"
	CategoryID  = "ID"
)

type GroupOption struct {
	Code     string `json:"code"`
	Category string `json:"category"`
}

// GroupOptions is the fixed set of class codes allowed to register.
var GroupOptions = []GroupOption{
	{Code: "DD101", Category: CategoryDev},
	{Code: "DD102", Category: CategoryDev},
	{Code: "DD103", Category: CategoryDev},
	{Code: "DD104", Category: CategoryDev},
	{Code: "DD105", Category: CategoryDev},
	{Code: "DD106", Category: CategoryDev},
	{Code: "DD107", Category: CategoryDev},
	{Code: "DEVOWS201", Category: CategoryDev},
	{Code: "DEVOWS202", Category: CategoryDev},
	{Code: "DEVOWS203", Category: CategoryDev},
	{Code: "DEVOWS204", Category: CategoryDev},
	{Code: "ID101", Category: CategoryID},
	{Code: "ID102", Category: CategoryID},
	{Code: "ID103", Category: CategoryID},
	{Code: "ID104", Category: CategoryID},
	{Code: "IDOSR201", Category: CategoryID},
	{Code: "IDOSR202", Category: CategoryID},
	{Code: "IDOSR203", Category: CategoryID},
	{Code: "IDOSR204", Category: CategoryID},
}

func IsValidGroupCode(code string) bool {
	for _, g := range GroupOptions {
		if g.Code == code {
			return true
		}
	}
	return false
}
