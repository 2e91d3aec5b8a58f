package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/edubba/edubba/pkg/api/types/errors"
	apithreads "github.com/edubba/edubba/pkg/api/types/threads"
	bindthreads "github.com/edubba/edubba/pkg/api-types-binding/threads"
	"github.com/edubba/edubba/pkg/domain"
	kdiscussion "github.com/edubba/edubba/pkg/domain/discussion/db"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
)

// OpenThreadHandler opens the deliberation thread of a claim.
func OpenThreadHandler(dbDiscussion kdiscussion.DiscussionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		token, ok := RunTokenFrom(c)
		if !ok {
			return apierr.Unauthorized("run token is required", nil)
		}

		spec := apithreads.Spec{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("broken request body", err)
		}

		thread, err := dbDiscussion.Open(ctx, domain.ThreadSpec{
			ClaimId:  spec.ClaimId,
			Title:    spec.Title,
			OpenedBy: token.Actor,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrThreadExists):
				return apierr.Conflict(
					"the claim is discussed already",
					apierr.WithAdvice("post to the existing thread instead"),
					apierr.WithError(err),
				)
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			case errors.Is(err, domerr.ErrInvalid):
				return apierr.BadRequest("invalid thread spec", err)
			default:
				return apierr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusCreated, bindthreads.ComposeDetail(thread))
	}
}

// GetThreadHandler reads a thread with its posts.
func GetThreadHandler(dbDiscussion kdiscussion.DiscussionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		threadId := c.Param(paramKey)

		thread, err := dbDiscussion.Get(ctx, threadId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, bindthreads.ComposeDetail(thread))
	}
}

// PostToThreadHandler appends a post to an open thread.
func PostToThreadHandler(dbDiscussion kdiscussion.DiscussionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		threadId := c.Param(paramKey)

		token, ok := RunTokenFrom(c)
		if !ok {
			return apierr.Unauthorized("run token is required", nil)
		}

		spec := apithreads.PostSpec{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("broken request body", err)
		}

		ptype, err := domain.AsPostType(spec.Type)
		if err != nil {
			return apierr.BadRequest("unknown post type", err)
		}

		post, err := dbDiscussion.Post(ctx, domain.PostSpec{
			ThreadId: threadId,
			ReplyTo:  spec.ReplyTo,
			Type:     ptype,
			AuthorId: token.Actor,
			Body:     spec.Body,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrThreadNotOpen):
				return apierr.Conflict("the thread is not open", apierr.WithError(err))
			case errors.Is(err, domain.ErrUnrelatedReply):
				return apierr.BadRequest("reply_to post does not belong to the thread", err)
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			case errors.Is(err, domerr.ErrInvalid):
				return apierr.BadRequest("invalid post spec", err)
			default:
				return apierr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusCreated, bindthreads.ComposePost(post))
	}
}

// ResolveThreadHandler settles an open thread with a decision of its claim.
func ResolveThreadHandler(dbDiscussion kdiscussion.DiscussionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		threadId := c.Param(paramKey)

		if _, ok := RunTokenFrom(c); !ok {
			return apierr.Unauthorized("run token is required", nil)
		}

		spec := apithreads.ResolveSpec{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("broken request body", err)
		}
		if spec.DecisionId == "" {
			return apierr.BadRequest("decisionId is required", nil)
		}

		thread, err := dbDiscussion.Resolve(ctx, threadId, spec.DecisionId)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnrelatedDecision):
				return apierr.BadRequest("the decision belongs to another claim", err)
			case errors.Is(err, domain.ErrInvalidThreadStateChanging):
				return apierr.Conflict("the thread is not open", apierr.WithError(err))
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			default:
				return apierr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusOK, bindthreads.ComposeDetail(thread))
	}
}

// ArchiveThreadHandler closes a thread for good.
func ArchiveThreadHandler(dbDiscussion kdiscussion.DiscussionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		threadId := c.Param(paramKey)

		if _, ok := RunTokenFrom(c); !ok {
			return apierr.Unauthorized("run token is required", nil)
		}

		thread, err := dbDiscussion.Archive(ctx, threadId)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidThreadStateChanging):
				return apierr.Conflict("the thread is archived already", apierr.WithError(err))
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			default:
				return apierr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusOK, bindthreads.ComposeDetail(thread))
	}
}
