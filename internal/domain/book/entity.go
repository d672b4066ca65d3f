package book

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle   = errors.New("book title cannot be empty")
	ErrTitleTooLong = errors.New("book title is too long (max 200 characters)")
	ErrEmptyAuthor  = errors.New("book author cannot be empty")
	ErrInvalidISBN  = errors.New("isbn must be 10 or 13 characters")
)

const MaxTitleLength = 200

type Book struct {
	id              uuid.UUID
	title           string
	author          string
	isbn            string
	publicationYear *int32
	description     *string
	category        *string
	createdAt       time.Time
	updatedAt       time.Time
}

func NewBook(title, author, isbn string, publicationYear *int32, description, category *string) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	isbn = strings.TrimSpace(isbn)

	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if author == "" {
		return nil, ErrEmptyAuthor
	}
	if l := len(isbn); l != 10 && l != 13 {
		return nil, ErrInvalidISBN
	}

	return &Book{
		id:              uuid.New(),
		title:           title,
		author:          author,
		isbn:            isbn,
		publicationYear: publicationYear,
		description:     description,
		category:        category,
	}, nil
}

func (b *Book) ID() uuid.UUID           { return b.id }
func (b *Book) Title() string           { return b.title }
func (b *Book) Author() string          { return b.author }
func (b *Book) ISBN() string            { return b.isbn }
func (b *Book) PublicationYear() *int32 { return b.publicationYear }
func (b *Book) Description() *string    { return b.description }
func (b *Book) Category() *string       { return b.category }
func (b *Book) CreatedAt() time.Time    { return b.createdAt }
func (b *Book) UpdatedAt() time.Time    { return b.updatedAt }
