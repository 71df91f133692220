package yarrow

import (
	"context"
	"fmt"
	"sync"

	"github.com/opcore/yarrow/broker"
)

// Server declares queues for every registered operator plus __info__ and
// __dead_letters_queue__, and drives one consume loop per queue until ctx
// is cancelled.
type Server struct {
	channel    broker.Channel
	registered []Registered
	info       *InfoHandler
	opts       []Option
}

// NewServer builds a Server that will serve registered operators over
// channel. opts configure every operator Dispatcher's hooks.
func NewServer(registered []Registered, channel broker.Channel, opts ...Option) *Server {
	return &Server{
		channel:    channel,
		registered: registered,
		info:       NewInfoHandler(registered),
		opts:       opts,
	}
}

type queueLoop struct {
	queue  string
	handle func(context.Context, broker.Channel, broker.Delivery) error
}

// Run declares every queue, starts one consume goroutine for __info__
// and one per operator queue (__dead_letters_queue__ is only declared), and
// blocks until ctx is cancelled or a consume loop reports a fatal error.
// Deliveries within a single queue are handled sequentially, in arrival
// order; separate queues run concurrently.
func (s *Server) Run(ctx context.Context) error {
	if err := s.channel.QueueDeclare(InfoQueue); err != nil {
		return fmt.Errorf("declare %s: %w", InfoQueue, err)
	}
	if err := s.channel.QueueDeclare(deadLetterQueue); err != nil {
		return fmt.Errorf("declare %s: %w", deadLetterQueue, err)
	}

	loops := []queueLoop{{InfoQueue, s.info.Handle}}

	for _, r := range s.registered {
		if err := s.channel.QueueDeclare(r.ShortName); err != nil {
			return fmt.Errorf("declare %s: %w", r.ShortName, err)
		}
		d := NewDispatcher(r.Descriptor, s.opts...)
		loops = append(loops, queueLoop{r.ShortName, d.Handle})
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(loops))

	for _, l := range loops {
		deliveries, err := s.channel.Consume(ctx, l.queue)
		if err != nil {
			return fmt.Errorf("consume %s: %w", l.queue, err)
		}
		wg.Add(1)
		go s.consume(ctx, &wg, errs, l, deliveries)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		<-done
		return ctx.Err()
	case err := <-errs:
		return err
	case <-done:
		return nil
	}
}

func (s *Server) consume(ctx context.Context, wg *sync.WaitGroup, errs chan<- error, l queueLoop, deliveries <-chan broker.Delivery) {
	defer wg.Done()
	for d := range deliveries {
		if err := l.handle(ctx, s.channel, d); err != nil {
			select {
			case errs <- fmt.Errorf("%s: %w", l.queue, err):
			default:
			}
		}
	}
}
