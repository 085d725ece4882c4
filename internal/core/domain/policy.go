package domain

// CanDelete reports whether sess may delete post: the author always may, and
// so may any administrator.
func CanDelete(post *Post, sess *Session) bool {
	if post == nil || sess == nil {
		return false
	}
	return sess.UserID == post.Author || sess.Roles.Has(RoleAdmin)
}
