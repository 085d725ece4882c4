package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/api/metrics"
	"github.com/minifeed/feed-service/internal/api/views"
	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

type PostHandler struct {
	posts   ports.PostService
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewPostHandler(posts ports.PostService, m *metrics.Metrics, log zerolog.Logger) *PostHandler {
	return &PostHandler{posts: posts, metrics: m, log: log}
}

// Feed handles GET /.
func (h *PostHandler) Feed(c echo.Context, sess *domain.Session) error {
	posts, err := h.posts.ListPosts(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list posts failed")
		return c.Render(http.StatusInternalServerError, views.PageFeed, views.PageData{
			User:  sess.UserID,
			Error: genericFailure,
		})
	}

	data := views.PageData{User: sess.UserID, Posts: make([]views.PostView, 0, len(posts))}
	for _, p := range posts {
		data.Posts = append(data.Posts, views.PostView{
			ID:        p.ID,
			Author:    p.Author,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
			Likes:     p.Likes,
			IsLiked:   p.IsLikedBy(sess.UserID),
			CanDelete: domain.CanDelete(p, sess),
		})
	}
	return c.Render(http.StatusOK, views.PageFeed, data)
}

// NewPostPage handles GET /newpost.
func (h *PostHandler) NewPostPage(c echo.Context, sess *domain.Session) error {
	return c.Render(http.StatusOK, views.PageNewPost, views.PageData{User: sess.UserID})
}

// CreatePost handles POST /createPost.
func (h *PostHandler) CreatePost(c echo.Context, sess *domain.Session) error {
	var form postForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	_, err := h.posts.CreatePost(c.Request().Context(), sess, form.Content)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.Render(http.StatusBadRequest, views.PageNewPost, views.PageData{
				User:    sess.UserID,
				Error:   verr.Message,
				Content: form.Content,
			})
		}
		h.log.Error().Err(err).Str("user", sess.UserID).Msg("create post failed")
		return c.Render(http.StatusInternalServerError, views.PageNewPost, views.PageData{
			User:    sess.UserID,
			Error:   genericFailure,
			Content: form.Content,
		})
	}

	h.metrics.PostsCreatedTotal.Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

// LikePost toggles the caller's like on a post.
//
// @Summary      Toggle a like
// @Description  Likes the post, or removes the like when the caller already liked it.
// @Tags         posts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      postIDRequest  true  "Target post"
// @Success      200   {object}  likeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /likePost [post]
func (h *PostHandler) LikePost(c echo.Context, sess *domain.Session) error {
	var req postIDRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.posts.ToggleLike(c.Request().Context(), sess, req.PostID)
	if err != nil {
		return err
	}

	action := "unlike"
	if res.IsLiked {
		action = "like"
	}
	h.metrics.LikesToggledTotal.WithLabelValues(action).Inc()

	return c.JSON(http.StatusOK, likeResponse{Success: true, Likes: res.Likes, IsLiked: res.IsLiked})
}

// DeletePost handles POST /deletePost. The browser always lands back on the
// feed; a declined delete is only logged.
func (h *PostHandler) DeletePost(c echo.Context, sess *domain.Session) error {
	var req postIDRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	err := h.posts.DeletePost(c.Request().Context(), sess, req.PostID)
	switch {
	case err == nil:
		h.metrics.PostDeletesTotal.WithLabelValues("deleted").Inc()
	case errors.Is(err, domain.ErrForbidden):
		h.metrics.PostDeletesTotal.WithLabelValues("forbidden").Inc()
		h.log.Warn().Str("post_id", req.PostID).Str("user", sess.UserID).Msg("delete not permitted")
	default:
		h.metrics.PostDeletesTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Str("post_id", req.PostID).Msg("delete failed")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
