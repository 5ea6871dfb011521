package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserLogin records the user's login under the key "user_login".
// If login is empty, it returns an empty Attr.
func UserLogin(login string) slog.Attr {
	if login == "" {
		return slog.Attr{}
	}
	return slog.String("user_login", login)
}

// RoleID records a role identifier under the key "role_id".
func RoleID(id string) slog.Attr {
	return slog.String("role_id", id)
}

// Component records the originating component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
