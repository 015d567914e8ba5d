package main

import (
	"context"
	"log"

	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/datamodels/book"
	"github.com/uskudu/books-cont/internal/repository/mysql"
)

// 本地联调用：往空库里灌一批图书
func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := mysql.Init(&cfg.MySQL)
	repo := mysql.NewBookRepository(db)
	ctx := context.Background()

	existing, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("list books failed: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("books table not empty (%d rows), nothing to do", len(existing))
		return
	}

	books := []*book.Book{
		{Title: "The Go Programming Language", Author: "Alan Donovan", Genre: "programming", Description: "The authoritative resource to writing clear and idiomatic Go", Year: 2015, Price: 3500, Rating: 4.7},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Genre: "programming", Description: "The big ideas behind reliable, scalable and maintainable systems", Year: 2017, Price: 4200, Rating: 4.8},
		{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Genre: "classic", Description: "A novel about the mental anguish of a young murderer", Year: 1866, Price: 990, Rating: 4.6},
		{Title: "The Master and Margarita", Author: "Mikhail Bulgakov", Genre: "classic", Description: "The devil visits Soviet Moscow", Year: 1967, Price: 1200, Rating: 4.9},
		{Title: "Dune", Author: "Frank Herbert", Genre: "sci-fi", Description: "Politics, religion and ecology on the desert planet Arrakis", Year: 1965, Price: 1500, Rating: 4.5},
		{Title: "Neuromancer", Author: "William Gibson", Genre: "sci-fi", Description: "The novel that defined cyberpunk", Year: 1984, Price: 1300, Rating: 4.2},
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Genre: "programming", Description: "Your journey to mastery", Year: 1999, Price: 3100, Rating: 4.4},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "fantasy", Description: "There and back again", Year: 1937, Price: 1100, Rating: 4.7},
	}

	for _, b := range books {
		if err := repo.Create(ctx, b); err != nil {
			log.Fatalf("create book %q failed: %v", b.Title, err)
		}
		log.Printf("created book #%d %q", b.ID, b.Title)
	}
	log.Printf("seeded %d books", len(books))
}
