package domain

type View string

const (
	ViewHome       View = "home"
	ViewAbout      View = "about"
	ViewProducts   View = "products"
	ViewContact    View = "contact"
	ViewLogin      View = "login"
	ViewAdmin      View = "admin"
	ViewSuperAdmin View = "super-admin"
)

// IsSection reports whether the view is a section of the marketing page.
func (v View) IsSection() bool {
	switch v {
	case ViewHome, ViewAbout, ViewProducts, ViewContact:
		return true
	}
	return false
}

type ScreenName string

const (
	ScreenMarketing      ScreenName = "marketing"
	ScreenLogin          ScreenName = "login"
	ScreenAdminDashboard ScreenName = "admin-dashboard"
	ScreenSuperDashboard ScreenName = "super-admin-dashboard"
)

type Layout string

const (
	LayoutComposite Layout = "composite"
	LayoutShell     Layout = "shell"
)

// A Screen is what the page renders for a view.
//
// Section is the scroll target of the composite screen.
// RedirectFrom is set when access to a protected view fell back to login.
type Screen struct {
	Name         ScreenName
	Layout       Layout
	Section      View
	RedirectFrom View
}
