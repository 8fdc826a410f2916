// Command heapinspect builds a resource heap on the null device from a TOML description, writes
// its views, inserts the barriers every set needs, and prints the result as json.
//
//	heapinspect [-detailed] [-watch] [-level debug] heap.toml
//
// With -watch, the description is inspected again every time the file changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/descheap/config"
	"github.com/vkngwrapper/descheap/native"
	"github.com/vkngwrapper/descheap/null"
	"github.com/vkngwrapper/descheap/resheap"
)

func main() {
	detailed := flag.Bool("detailed", false, "list every set's slots and barriers")
	watch := flag.Bool("watch", false, "inspect again whenever the file changes")
	level := flag.String("level", "info", "log level: debug, info, warn, or error")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: heapinspect [-detailed] [-watch] [-level debug] heap.toml")
		os.Exit(2)
	}

	logger, err := newLogger(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	path := flag.Arg(0)
	if !*watch {
		err = run(logger, os.Stdout, path, *detailed)
		if err != nil {
			logger.Error("inspection failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = watchFile(ctx, logger, path, func() {
		err := run(logger, os.Stdout, path, *detailed)
		if err != nil {
			logger.Error("inspection failed", slog.Any("error", err))
		}
	})
	if err != nil {
		logger.Error("watch failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "heapinspect",
		Level:           parsed,
	})

	return slog.New(handler), nil
}

// run inspects the heap description at path and writes the json report to out
func run(logger *slog.Logger, out io.Writer, path string, detailed bool) error {
	file, err := config.Load(path)
	if err != nil {
		return err
	}

	report, err := inspect(logger, file, detailed)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, report)
	return err
}

func inspect(logger *slog.Logger, file *config.File, detailed bool) (string, error) {
	device, err := null.NewDevice(logger, file.DeviceOptions())
	if err != nil {
		return "", err
	}

	resources, err := file.CreateResources(device)
	if err != nil {
		return "", err
	}

	batches, err := file.ViewBatches(resources)
	if err != nil {
		return "", err
	}

	heapDesc, err := file.HeapDescriptor()
	if err != nil {
		return "", err
	}

	var initialViews []resheap.ResourceViewDescriptor
	if heapDesc.NumDescriptorSets == 0 {
		if len(batches) == 0 || batches[0].First != 0 {
			return "", errors.New("heap.sets can only be left out when the views start at descriptor 0")
		}
		initialViews = batches[0].Views
		batches = batches[1:]
	}

	heap, err := resheap.New(logger, device, heapDesc, initialViews, file.CreateOptions())
	if err != nil {
		return "", err
	}
	defer func() {
		destroyErr := heap.Destroy()
		if destroyErr != nil {
			logger.Error("failed to destroy heap", slog.Any("error", destroyErr))
		}
	}()

	for _, batch := range batches {
		written, err := heap.CreateResourceViewHandles(batch.First, batch.Views)
		if err != nil {
			return "", err
		}

		logger.Info("wrote views",
			slog.String("heap", heap.ID().String()),
			slog.Int("first", batch.First),
			slog.Int("written", written),
			slog.Int("requested", len(batch.Views)),
		)
	}

	commandList := null.NewCommandList()
	for set := 0; set < heap.NumDescriptorSets(); set++ {
		heap.InsertResourceBarriers(commandList, set)
	}

	return buildReport(heap, device, commandList, detailed), nil
}

func buildReport(heap *resheap.ResourceHeap, device *null.Device, commandList *null.CommandList, detailed bool) string {
	writer := jwriter.NewWriter()
	obj := writer.Object()

	obj.Name("Heap").Raw([]byte(heap.BuildStatsString(detailed)))
	device.PrintDetailedMap(obj.Name("Device"))

	submissions := obj.Name("BarrierSubmissions").Array()
	for _, barriers := range commandList.Submissions() {
		submission := submissions.Array()
		for _, barrier := range barriers {
			barrierObj := submission.Object()
			barrierObj.Name("Type").String(barrier.Type.String())
			if barrier.Flags != 0 {
				barrierObj.Name("Flags").String(barrier.Flags.String())
			}
			barrierObj.Name("Resource").Int(int(barrier.Resource))
			barrierObj.End()
		}
		submission.End()
	}
	submissions.End()

	total := device.TotalStatistics()
	pools := obj.Name("Pools").Object()
	pools.Name("Regions").Int(total.AllocationCount)
	pools.Name("UsedDescriptors").Int(total.AllocationSize)
	pools.Name("FreeDescriptors").Int(total.FreeSize())
	pools.End()

	viewWrites := obj.Name("DescriptorWrites").Object()
	viewWrites.Name("Views").Int(device.ViewWrites())
	viewWrites.Name("ViewsPerSet").Int(heap.NumDescriptorsPerSet(native.RegionViews))
	viewWrites.Name("SamplersPerSet").Int(heap.NumDescriptorsPerSet(native.RegionSamplers))
	viewWrites.End()

	obj.End()
	return string(writer.Bytes())
}

// watchFile calls inspect once and then again every time path is written or replaced, until ctx
// is done. The parent directory is watched so that editors that replace the file are seen.
func watchFile(ctx context.Context, logger *slog.Logger, path string, inspect func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		return err
	}

	inspect()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != absPath || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}

			logger.Info("heap description changed", slog.String("path", path), slog.String("op", event.Op.String()))
			inspect()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watch error", slog.Any("error", err))
		case <-ctx.Done():
			return nil
		}
	}
}
