package graphql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	model "blog-post-service/internal/domain/models"
	post_service "blog-post-service/internal/domain/ports/input/post"
	ports "blog-post-service/internal/domain/ports/output"
)

const greeting = "Hello everybody!"

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	service  post_service.Service
	validate *validator.Validate
	log      ports.Logger
}

func NewResolver(service post_service.Service, log ports.Logger) *Resolver {
	return &Resolver{
		service:  service,
		validate: newValidator(),
		log:      log,
	}
}

func (r *Resolver) Hello() string {
	return greeting
}

func (r *Resolver) Drafts(ctx context.Context) ([]*PostResolver, error) {
	posts, err := r.service.Drafts(ctx)
	if err != nil {
		return nil, err
	}
	return newPostResolvers(posts), nil
}

func (r *Resolver) Posts(ctx context.Context) ([]*PostResolver, error) {
	posts, err := r.service.Posts(ctx)
	if err != nil {
		return nil, err
	}
	return newPostResolvers(posts), nil
}

type createDraftArgs struct {
	Title string
	Body  string
}

func (r *Resolver) CreateDraft(ctx context.Context, args createDraftArgs) (*PostResolver, error) {
	input := createDraftInput{Title: args.Title, Body: args.Body}
	if err := validateInput(r.validate, input); err != nil {
		r.log.Debug("Rejected createDraft input", slog.String("error", err.Error()))
		return nil, err
	}

	post, err := r.service.CreateDraft(ctx, &model.CreateDraftDTO{Title: input.Title, Body: input.Body})
	if err != nil {
		return nil, err
	}
	return &PostResolver{post: post}, nil
}

type idArgs struct {
	ID int32
}

func (r *Resolver) DeleteDraft(ctx context.Context, args idArgs) (*DraftResponseResolver, error) {
	input := idInput{ID: int64(args.ID)}
	if err := validateInput(r.validate, input); err != nil {
		r.log.Debug("Rejected deleteDraft input", slog.String("error", err.Error()))
		return nil, err
	}

	outcome, err := r.service.DeleteDraft(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return newDraftResponseResolver(outcome)
}

func (r *Resolver) Publish(ctx context.Context, args idArgs) (*DraftResponseResolver, error) {
	input := idInput{ID: int64(args.ID)}
	if err := validateInput(r.validate, input); err != nil {
		r.log.Debug("Rejected publish input", slog.String("error", err.Error()))
		return nil, err
	}

	outcome, err := r.service.Publish(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return newDraftResponseResolver(outcome)
}

type PostResolver struct {
	post *model.Post
}

func newPostResolvers(posts []*model.Post) []*PostResolver {
	resolvers := make([]*PostResolver, 0, len(posts))
	for _, post := range posts {
		resolvers = append(resolvers, &PostResolver{post: post})
	}
	return resolvers
}

func (p *PostResolver) ID() int32 {
	return int32(p.post.ID)
}

func (p *PostResolver) Title() string {
	return p.post.Title
}

func (p *PostResolver) Body() string {
	return p.post.Body
}

func (p *PostResolver) Published() bool {
	return p.post.Published
}

type InputErrorResolver struct {
	err *model.InputError
}

func (e *InputErrorResolver) Field() string {
	return e.err.Field
}

func (e *InputErrorResolver) Message() string {
	return e.err.Message
}

func (e *InputErrorResolver) Received() string {
	return e.err.Received
}

// DraftResponseResolver renders a DraftOutcome with exactly one of post and
// error set.
type DraftResponseResolver struct {
	post *model.Post
	err  *model.InputError
}

func newDraftResponseResolver(outcome model.DraftOutcome) (*DraftResponseResolver, error) {
	switch o := outcome.(type) {
	case *model.Post:
		return &DraftResponseResolver{post: o}, nil
	case *model.InputError:
		return &DraftResponseResolver{err: o}, nil
	}
	return nil, fmt.Errorf("unexpected draft outcome %T", outcome)
}

func (d *DraftResponseResolver) Post() *PostResolver {
	if d.post == nil {
		return nil
	}
	return &PostResolver{post: d.post}
}

func (d *DraftResponseResolver) Error() *InputErrorResolver {
	if d.err == nil {
		return nil
	}
	return &InputErrorResolver{err: d.err}
}
