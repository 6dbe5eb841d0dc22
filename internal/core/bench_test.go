package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkBroadcast(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(newMemStore(), nil, Options{})
	go hub.Run(ctx)

	sender := NewClient("sender")
	hub.RegisterClient(sender)
	hub.Submit(sender, Command{Kind: CommandJoin, Name: "sender"})
	<-sender.Events // history

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient(fmt.Sprintf("c%d", i))
		hub.RegisterClient(c)
		hub.Submit(c, Command{Kind: CommandJoin, Name: fmt.Sprintf("user%d", i)})
		clients = append(clients, c)
	}

	// Drain events for all but the first recipient to avoid channel backpressure.
	target := clients[0]
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}
	go func() {
		for range sender.Events {
		}
	}()

	// Wait for the last join replay so every recipient is live.
	for ev := <-target.Events; ev.Kind != EventHistory; ev = <-target.Events {
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		hub.Submit(sender, Command{Kind: CommandSendMessage, Text: "payload"})
		for ev := <-target.Events; ev.Kind != EventMessage; ev = <-target.Events {
		}
	}
}

func BenchmarkBroadcast_10(b *testing.B)  { benchmarkBroadcast(b, 10) }
func BenchmarkBroadcast_100(b *testing.B) { benchmarkBroadcast(b, 100) }
func BenchmarkBroadcast_500(b *testing.B) { benchmarkBroadcast(b, 500) }
