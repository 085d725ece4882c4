package handler

type signupForm struct {
	Username        string `form:"username" validate:"required"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirmPassword" validate:"required"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type postForm struct {
	Content string `form:"content"`
}

// postIDRequest carries the target post of a like or delete. It binds from
// either a urlencoded form or a JSON body.
type postIDRequest struct {
	PostID string `json:"postId" form:"postId" validate:"required"`
}

// likeResponse is the body of a successful like toggle.
type likeResponse struct {
	Success bool `json:"success" example:"true"`
	Likes   int  `json:"likes" example:"3"`
	IsLiked bool `json:"isLiked" example:"true"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"post not found"`
}
