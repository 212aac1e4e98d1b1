package workflow

// SetAfterStep installs a hook run after each cascade step of
// DeleteInternship.
func (s *Service) SetAfterStep(fn func(step string) error) { s.afterStep = fn }
