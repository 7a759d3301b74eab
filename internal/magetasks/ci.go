package magetasks

// CI runs the gate sequence used by continuous integration: linters first,
// then race-enabled tests, then a stamped build.
func CI() error {
	PrintH1Header("icongate CI")

	if err := LintAll(); err != nil {
		return err
	}
	if err := TestRace(); err != nil {
		return err
	}
	if err := BuildAll(); err != nil {
		return err
	}

	PrintSuccess("CI pipeline complete")
	return nil
}
