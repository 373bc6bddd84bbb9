//go:build windows

package simulator

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/pkg/errors"
)

const (
	runStatusNode = `\Data\Results Summary\Run-Status\Output\RUNID`
	pollInterval  = 500 * time.Millisecond
	sFalse        = 1
)

// NewAspenFactory opens Aspen Plus through COM automation, trying progIDs in
// order.
func NewAspenFactory(progIDs []string, visible bool) DriverFactory {
	return func(ctx context.Context) (Driver, error) {
		return openAspen(ctx, progIDs, visible)
	}
}

// aspenDriver runs every COM call on one OS thread owned by loop.
type aspenDriver struct {
	calls   chan func()
	done    chan struct{}
	once    sync.Once
	app     *ole.IDispatch
	visible bool
}

func openAspen(ctx context.Context, progIDs []string, visible bool) (*aspenDriver, error) {
	d := &aspenDriver{
		calls:   make(chan func()),
		done:    make(chan struct{}),
		visible: visible,
	}
	ready := make(chan error, 1)
	go d.loop(ready)
	if err := <-ready; err != nil {
		return nil, errors.Wrap(err, "failed to initialize COM")
	}

	if err := d.do(ctx, func() error { return d.dispatch(progIDs) }); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func (d *aspenDriver) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		oleErr, ok := err.(*ole.OleError)
		if !ok || oleErr.Code() != sFalse {
			ready <- err
			return
		}
	}
	defer ole.CoUninitialize()

	ready <- nil
	for {
		select {
		case fn := <-d.calls:
			fn()
		case <-d.done:
			return
		}
	}
}

// do runs fn on the COM thread. A call in flight cannot be interrupted, so
// ctx only bounds the wait to start it.
func (d *aspenDriver) do(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	select {
	case d.calls <- func() { errc <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return errors.New("simulator driver is closed")
	}
	return <-errc
}

func (d *aspenDriver) dispatch(progIDs []string) error {
	var lastErr error = errors.New("no ProgID configured")
	for _, id := range progIDs {
		unknown, err := oleutil.CreateObject(id)
		if err != nil {
			lastErr = errors.Wrapf(err, "failed to create %s", id)
			continue
		}
		app, err := unknown.QueryInterface(ole.IID_IDispatch)
		unknown.Release()
		if err != nil {
			lastErr = errors.Wrapf(err, "%s does not support IDispatch", id)
			continue
		}
		d.app = app
		return nil
	}
	return lastErr
}

func (d *aspenDriver) Load(ctx context.Context, modelPath string) error {
	abs, err := filepath.Abs(modelPath)
	if err != nil {
		return err
	}
	return d.do(ctx, func() error {
		if _, err := oleutil.CallMethod(d.app, "InitFromArchive2", abs); err != nil {
			return errors.Wrap(err, "InitFromArchive2")
		}
		if _, err := oleutil.PutProperty(d.app, "Visible", d.visible); err != nil {
			return errors.Wrap(err, "Visible")
		}
		if _, err := oleutil.PutProperty(d.app, "SuppressDialogs", 1); err != nil {
			return errors.Wrap(err, "SuppressDialogs")
		}
		return nil
	})
}

func (d *aspenDriver) findNode(path string) (*ole.IDispatch, error) {
	treeVar, err := oleutil.GetProperty(d.app, "Tree")
	if err != nil {
		return nil, errors.Wrap(err, "Tree")
	}
	tree := treeVar.ToIDispatch()
	defer tree.Release()

	nodeVar, err := oleutil.CallMethod(tree, "FindNode", path)
	if err != nil {
		return nil, errors.Wrapf(err, "FindNode %s", path)
	}
	node := nodeVar.ToIDispatch()
	if node == nil {
		return nil, errors.Errorf("node %s not found", path)
	}
	return node, nil
}

func (d *aspenDriver) SetValue(ctx context.Context, path string, value float64) error {
	return d.do(ctx, func() error {
		node, err := d.findNode(path)
		if err != nil {
			return err
		}
		defer node.Release()
		_, err = oleutil.PutProperty(node, "Value", value)
		return errors.Wrapf(err, "set %s", path)
	})
}

func (d *aspenDriver) Value(ctx context.Context, path string) (float64, error) {
	var out float64
	err := d.do(ctx, func() error {
		node, err := d.findNode(path)
		if err != nil {
			return err
		}
		defer node.Release()

		v, err := oleutil.GetProperty(node, "Value")
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		defer v.Clear()

		out, err = toFloat(v.Value())
		return errors.Wrapf(err, "read %s", path)
	})
	return out, err
}

func toFloat(raw interface{}) (float64, error) {
	switch x := raw.(type) {
	case nil:
		return 0, ErrNoValue
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case string:
		if x == "" {
			return 0, ErrNoValue
		}
		return strconv.ParseFloat(x, 64)
	default:
		return 0, errors.Errorf("unsupported value type %T", raw)
	}
}

// Run reinitializes the model, starts the engine asynchronously and polls
// until it is idle, stopping it if ctx ends first.
func (d *aspenDriver) Run(ctx context.Context) error {
	err := d.do(ctx, func() error {
		if _, err := oleutil.CallMethod(d.app, "Reinit"); err != nil {
			return errors.Wrap(err, "Reinit")
		}
		return d.withEngine(func(engine *ole.IDispatch) error {
			_, err := oleutil.CallMethod(engine, "Run2", true)
			return errors.Wrap(err, "Run2")
		})
	})
	if err != nil {
		return err
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = d.do(context.Background(), func() error {
				return d.withEngine(func(engine *ole.IDispatch) error {
					_, err := oleutil.CallMethod(engine, "Stop")
					return err
				})
			})
			return ctx.Err()
		case <-ticker.C:
		}

		var running bool
		err := d.do(ctx, func() error {
			return d.withEngine(func(engine *ole.IDispatch) error {
				v, err := oleutil.GetProperty(engine, "IsRunning")
				if err != nil {
					return errors.Wrap(err, "IsRunning")
				}
				running, _ = v.Value().(bool)
				return nil
			})
		})
		if err != nil {
			return err
		}
		if !running {
			break
		}
	}

	return d.do(ctx, func() error {
		node, err := d.findNode(runStatusNode)
		if err != nil {
			return ErrNotConverged
		}
		defer node.Release()
		v, err := oleutil.GetProperty(node, "Value")
		if err != nil || v.Value() == nil {
			return ErrNotConverged
		}
		if s, ok := v.Value().(string); ok && s == "" {
			return ErrNotConverged
		}
		return nil
	})
}

func (d *aspenDriver) withEngine(fn func(engine *ole.IDispatch) error) error {
	v, err := oleutil.GetProperty(d.app, "Engine")
	if err != nil {
		return errors.Wrap(err, "Engine")
	}
	engine := v.ToIDispatch()
	defer engine.Release()
	return fn(engine)
}

func (d *aspenDriver) Close() error {
	var err error
	d.once.Do(func() {
		if d.app != nil {
			err = d.do(context.Background(), func() error {
				_, closeErr := oleutil.CallMethod(d.app, "Close")
				_, _ = oleutil.CallMethod(d.app, "Quit")
				d.app.Release()
				d.app = nil
				return closeErr
			})
		}
		close(d.done)
	})
	return err
}
