package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"tickethub/backend/internal/client"
	"tickethub/backend/internal/config"
	"tickethub/backend/internal/models"
	"tickethub/backend/internal/sla"
	"tickethub/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: list | close <ticket_id> | resolve <ticket_id> | reopen <ticket_id> | sweep | offline <queue_file>")
		os.Exit(1)
	}

	command := os.Args[1]

	// The offline command inspects a local queue file and needs no database.
	if command == "offline" {
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin offline <queue_file>")
			os.Exit(1)
		}
		if err := showOfflineQueue(os.Args[2]); err != nil {
			log.Fatalf("Error reading offline queue: %v", err)
		}
		return
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	switch command {
	case "list":
		tickets, err := storageSvc.ListOpenTickets()
		if err != nil {
			log.Fatalf("Error listing tickets: %v", err)
		}
		for _, t := range tickets {
			fmt.Printf("#%d\t%s\tlevel %d\t%s\t%s\n", t.ID, t.Status, t.EscalationLevel, t.CreatedAt.Format("2006-01-02 15:04"), t.Subject)
		}
	case "sweep":
		monitor := sla.NewMonitor(storageSvc, nil)
		escalated, err := monitor.Sweep()
		if err != nil {
			log.Fatalf("Error running escalation sweep: %v", err)
		}
		if len(escalated) == 0 {
			fmt.Println("No tickets needed escalation.")
		}
		for _, e := range escalated {
			fmt.Printf("Ticket %d escalated to level %d.\n", e.TicketID, e.Level)
		}
	case "close":
		setStatus(storageSvc, models.TicketStatusClosed)
	case "resolve":
		setStatus(storageSvc, models.TicketStatusResolved)
	case "reopen":
		setStatus(storageSvc, models.TicketStatusOpen)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func setStatus(s storage.Storage, status models.TicketStatus) {
	if len(os.Args) != 3 {
		fmt.Printf("Usage: admin %s <ticket_id>\n", os.Args[1])
		os.Exit(1)
	}
	id, err := strconv.Atoi(os.Args[2])
	if err != nil || id <= 0 {
		fmt.Println("Invalid ticket ID. Please provide a positive integer.")
		os.Exit(1)
	}
	if err := s.UpdateTicketStatus(uint(id), status); err != nil {
		log.Fatalf("Error updating ticket: %v", err)
	}
	fmt.Printf("Ticket %d is now %s.\n", id, status)
}

func showOfflineQueue(path string) error {
	store := client.NewOfflineStore(path)
	tickets, err := store.Load()
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Println("Offline queue is empty.")
		return nil
	}
	for _, t := range tickets {
		fmt.Printf("%d\t%s\t%s\t%q\n", t.ID, t.Status, t.Timestamp.Format("2006-01-02 15:04"), t.Message)
	}
	return nil
}
