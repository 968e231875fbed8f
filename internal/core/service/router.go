package service

import "github.com/niksmo/medsupply/internal/core/domain"

// Route selects the screen for view and the current user.
//
// Marketing sections share one composite screen. Protected views fall
// back to the login screen when the user lacks the role.
func Route(view domain.View, user *domain.User) domain.Screen {
	if view.IsSection() {
		return domain.Screen{
			Name:    domain.ScreenMarketing,
			Layout:  domain.LayoutComposite,
			Section: view,
		}
	}

	role := domain.RoleGuest
	if user != nil {
		role = user.Role
	}

	switch view {
	case domain.ViewLogin:
		return loginScreen("")
	case domain.ViewAdmin:
		if role.IsStaff() {
			return domain.Screen{
				Name:   domain.ScreenAdminDashboard,
				Layout: domain.LayoutShell,
			}
		}
		return loginScreen(view)
	case domain.ViewSuperAdmin:
		if role == domain.RoleSuperAdmin {
			return domain.Screen{
				Name:   domain.ScreenSuperDashboard,
				Layout: domain.LayoutShell,
			}
		}
		return loginScreen(view)
	}

	return domain.Screen{
		Name:    domain.ScreenMarketing,
		Layout:  domain.LayoutShell,
		Section: domain.ViewHome,
	}
}

// Authorize reports whether role may open view.
func Authorize(view domain.View, role domain.Role) bool {
	u := domain.User{Role: role}
	return Route(view, &u).Name != domain.ScreenLogin || view == domain.ViewLogin
}

func loginScreen(from domain.View) domain.Screen {
	return domain.Screen{
		Name:         domain.ScreenLogin,
		Layout:       domain.LayoutShell,
		RedirectFrom: from,
	}
}
