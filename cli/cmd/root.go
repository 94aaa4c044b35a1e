package cmd

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var (
	serverAddr string
	roomID     string
	playerName string
)

// serverMessage is the flat union of every outbound message type the
// backend pushes.
type serverMessage struct {
	Type    string   `json:"type"`
	Message string   `json:"message,omitempty"`
	Symbol  *string  `json:"symbol,omitempty"`
	Board   []string `json:"board,omitempty"`
	Turn    string   `json:"turn,omitempty"`
	Winner  *string  `json:"winner,omitempty"`
	By      string   `json:"by,omitempty"`
}

var rootCmd = &cobra.Command{
	Use:   "triki-client",
	Short: "Terminal client for triki matches",
	Long: `Connects to a triki backend room over WebSocket, joins with the given
name and plays from stdin: type a cell number (0-8) to move, "reset" to
restart the match, or "quit" to leave.`,
	RunE: runClient,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&serverAddr, "server", "localhost:8080", "host:port of the websocket server")
	rootCmd.Flags().StringVar(&roomID, "room", "", "room id to join")
	rootCmd.Flags().StringVar(&playerName, "name", "", "display name")

	_ = rootCmd.MarkFlagRequired("room")
	_ = rootCmd.MarkFlagRequired("name")
}

func runClient(cmd *cobra.Command, _ []string) error {
	endpoint := url.URL{Scheme: "ws", Host: serverAddr, Path: "/ws/" + roomID}

	conn, _, err := websocket.DefaultDialer.Dial(endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", endpoint.String(), err)
	}
	defer conn.Close()

	join := map[string]string{"action": "join", "name": playerName}
	if err = conn.WriteJSON(join); err != nil {
		return fmt.Errorf("failed to send join: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		receiveLoop(conn)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-done:
			return nil
		default:
		}

		if !scanner.Scan() {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit":
			return nil
		case line == "reset":
			if err = conn.WriteJSON(map[string]string{"action": "reset"}); err != nil {
				return fmt.Errorf("failed to send reset: %w", err)
			}
		default:
			position, convErr := strconv.Atoi(line)
			if convErr != nil {
				fmt.Println("type a cell number (0-8), \"reset\" or \"quit\"")
				continue
			}

			move := map[string]any{"action": "move", "position": position}
			if err = conn.WriteJSON(move); err != nil {
				return fmt.Errorf("failed to send move: %w", err)
			}
		}
	}
}

func receiveLoop(conn *websocket.Conn) {
	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			fmt.Println("connection closed")
			return
		}

		switch msg.Type {
		case "info":
			fmt.Printf("* %s\n", msg.Message)
		case "error":
			fmt.Printf("! %s\n", msg.Message)
		case "state", "move_result":
			if msg.Message != "" {
				fmt.Printf("* %s (%s)\n", msg.Message, msg.By)
			}
			printBoard(msg.Board)
			if msg.Winner != nil {
				fmt.Printf("winner: %s\n", *msg.Winner)
			} else {
				fmt.Printf("turn: %s\n", msg.Turn)
			}
		}
	}
}

func printBoard(board []string) {
	if len(board) != 9 {
		return
	}

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cell := board[row*3+col]
			if cell == "" {
				cell = strconv.Itoa(row*3 + col)
			}
			cells[col] = cell
		}
		fmt.Printf(" %s | %s | %s\n", cells[0], cells[1], cells[2])
		if row < 2 {
			fmt.Println("---+---+---")
		}
	}
}
