package admin

// SetName returns an UpdateSetter that sets the display name.
func SetName(name string) UpdateSetter {
	return func(a *Admin) error {
		if name == "" {
			return ErrInvalidName
		}
		a.Name = name
		return nil
	}
}

// SetPassword returns an UpdateSetter that replaces the password.
func SetPassword(password string) UpdateSetter {
	return func(a *Admin) error {
		return a.SetPassword(password)
	}
}

// SetActive returns an UpdateSetter that enables or disables the admin.
func SetActive(active bool) UpdateSetter {
	return func(a *Admin) error {
		a.IsActive = active
		return nil
	}
}
