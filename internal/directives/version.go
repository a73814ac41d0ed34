package directives

// VersionDirective is the attribute name of the version directive
const VersionDirective = "appVersion"

// AppVersion returns a directive that writes version as the text content of
// the element it is bound to. The write happens once, at bind time.
func AppVersion(version string) LinkFunc {
	return func(el Element) {
		el.SetText(version)
	}
}
