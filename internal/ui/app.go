package ui

import (
	"context"
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"OpenSketch/internal/board"
	"OpenSketch/internal/collab"
	"OpenSketch/internal/export"
	"OpenSketch/internal/history"
	"OpenSketch/internal/img"
	"OpenSketch/internal/scene"
	"OpenSketch/internal/store"
)

// Config carries the startup settings resolved by main.
type Config struct {
	RelayURL string // ws:// base URL of the room relay
	RoomID   string // room to join when sharing; "" generates one
	DataDir  string // local persistence directory
}

// RunApp assembles the document, interaction engine, persistence and sync
// layers around the board widget and runs the window until closed.
func RunApp(cfg Config) {
	a := app.New()
	win := a.NewWindow("OpenSketch")
	win.Resize(fyne.NewSize(1280, 800))

	model := scene.NewModel()
	hist := history.New()
	ctrl := board.NewController(model, hist)

	fs, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Printf("[STORE] persistence disabled: %v", err)
	}
	var saver *store.Saver
	if fs != nil {
		if sc, ok, err := fs.Load(store.SceneKey); err != nil {
			log.Printf("[STORE] load failed, starting empty: %v", err)
		} else if ok {
			model.Replace(sc, true)
		}
		saver = store.NewSaver(fs, store.SceneKey)
	}

	bw := NewBoardWidget(model, ctrl)
	status := widget.NewLabel("offline")

	session := collab.NewSession()
	session.OnRemoteScene = ctrl.ApplyRemoteScene
	session.OnState = func(st collab.State) {
		fyne.Do(func() {
			if st == collab.Joined {
				status.SetText("room " + session.RoomID())
			} else {
				status.SetText(st.String())
			}
		})
	}

	sched := board.NewScheduler(0, func() {
		ctrl.FlushMoves()
		fyne.Do(bw.Refresh)
	})
	ctrl.SetPainter(sched.Request)

	model.OnChange(func(local bool) {
		sched.Request()
		sc := model.Snapshot()
		if saver != nil {
			saver.Queue(sc)
		}
		if local {
			session.QueueUpdate(sc)
		}
	})

	// Called by the controller under its lock; fyne.Do defers the dialog
	// past the unlock.
	ctrl.OnPickImage = func(at scene.Point) {
		fyne.Do(func() {
			dialog.ShowFileOpen(func(rd fyne.URIReadCloser, err error) {
				if err != nil || rd == nil {
					return
				}
				defer rd.Close()
				insertPickedImage(ctrl, at, rd)
			}, win)
		})
	}

	share := widget.NewButton("Share", func() {
		if session.State() != collab.Disconnected {
			dialog.ShowInformation("Sharing", "Connected to room "+session.RoomID(), win)
			return
		}
		room := cfg.RoomID
		if room == "" {
			room = uuid.NewString()
		}
		go func() {
			if err := collab.Probe(context.Background(), cfg.RelayURL); err != nil {
				log.Printf("[SYNC] relay probe: %v", err)
				fyne.Do(func() { status.SetText("offline") })
				return
			}
			if err := session.Connect(context.Background(), cfg.RelayURL, room, model.Snapshot()); err != nil {
				log.Printf("[SYNC] connect: %v", err)
				fyne.Do(func() { dialog.ShowError(err, win) })
			}
		}()
	})

	exportPDF := widget.NewButton("PDF", func() {
		dialog.ShowFileSave(func(wr fyne.URIWriteCloser, err error) {
			if err != nil || wr == nil {
				return
			}
			path := wr.URI().Path()
			wr.Close()
			if err := export.ToPDF(path, model.Snapshot()); err != nil {
				dialog.ShowError(err, win)
			}
		}, win)
	})

	saveJSON := widget.NewButton("Save", func() {
		dialog.ShowFileSave(func(wr fyne.URIWriteCloser, err error) {
			if err != nil || wr == nil {
				return
			}
			defer wr.Close()
			if err := export.ToJSON(wr, model.Snapshot()); err != nil {
				dialog.ShowError(err, win)
			}
		}, win)
	})

	openJSON := widget.NewButton("Open", func() {
		dialog.ShowFileOpen(func(rd fyne.URIReadCloser, err error) {
			if err != nil || rd == nil {
				return
			}
			defer rd.Close()
			sc, err := export.FromJSON(rd)
			if err != nil {
				dialog.ShowError(err, win)
				return
			}
			hist.Snapshot(model.Elements())
			ctrl.ClearSelection()
			model.Replace(sc, true)
		}, win)
	})

	actions := container.NewHBox(
		widget.NewButton("Undo", ctrl.Undo),
		widget.NewButton("Redo", ctrl.Redo),
		widget.NewSeparator(),
		widget.NewButton("-", func() { model.ZoomBy(-0.1) }),
		widget.NewButton("+", func() { model.ZoomBy(0.1) }),
		widget.NewButton("1:1", func() { model.SetView(scene.Point{}, 1, "") }),
		widget.NewSeparator(),
		share, exportPDF, saveJSON, openJSON,
	)

	cv := win.Canvas()
	cv.SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			ctrl.DeleteSelection()
		case fyne.KeyEscape:
			bw.FinishTextEdit()
			ctrl.ClearSelection()
		}
	})
	cv.AddShortcut(
		&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { ctrl.Undo() },
	)
	cv.AddShortcut(
		&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { ctrl.Redo() },
	)
	if dc, ok := cv.(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(e *fyne.KeyEvent) {
			if e.Name == fyne.KeySpace {
				bw.SetSpaceHeld(true)
			}
		})
		dc.SetOnKeyUp(func(e *fyne.KeyEvent) {
			if e.Name == fyne.KeySpace {
				bw.SetSpaceHeld(false)
			}
		})
	}

	top := container.NewVBox(NewToolbar(ctrl, bw), actions)
	win.SetContent(container.NewBorder(top, status, nil, nil, bw))

	win.SetOnClosed(func() {
		sched.Stop()
		session.Close()
		if saver != nil {
			saver.Stop()
		}
	})

	win.ShowAndRun()
}

// insertPickedImage decodes a picked file, inserts the shape with a
// display-fitted box, and downscales oversized pixel data off the UI
// thread before swapping the stored handle.
func insertPickedImage(ctrl *board.Controller, at scene.Point, rd io.Reader) {
	data, err := io.ReadAll(rd)
	if err != nil {
		log.Printf("[IMG] read picked file: %v", err)
		return
	}
	m, err := img.Decode(data)
	if err != nil {
		log.Printf("[IMG] decode picked file: %v", err)
		return
	}
	handle, err := img.EncodeHandle(m)
	if err != nil {
		log.Printf("[IMG] encode handle: %v", err)
		return
	}
	bounds := m.Bounds()
	id := ctrl.InsertImage(at, handle, bounds.Dx(), bounds.Dy())

	go func() {
		down := img.Downscale(m, board.MaxImageStoredW, board.MaxImageStoredH)
		if down == m {
			return
		}
		smaller, err := img.EncodeHandle(down)
		if err != nil {
			log.Printf("[IMG] encode downscaled handle: %v", err)
			return
		}
		ctrl.ReplaceImageHandle(id, smaller)
	}()
}
