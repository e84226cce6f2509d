package repositories

// nullIfZero stores optional foreign keys as NULL instead of 0.
func nullIfZero(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
